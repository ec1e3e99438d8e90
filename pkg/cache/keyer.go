package cache

// Keyer derives cache keys for export stages.
type Keyer interface {
	// RasterKey identifies a captured raster of one tree.
	RasterKey(recordsHash string, root int, opts RasterKeyOpts) string
	// ArtifactKey identifies a finished document built from a raster.
	ArtifactKey(rasterKey string, opts ArtifactKeyOpts) string
	// ReportKey identifies a text or DOCX report of one tree.
	ReportKey(recordsHash string, root int, kind string) string
}

// RasterKeyOpts lists everything that changes captured pixels.
type RasterKeyOpts struct {
	Adapter     string  `json:"adapter"`
	DeviceScale float64 `json:"device_scale"`
	Background  string  `json:"background,omitempty"`
	RowHeight   float64 `json:"row_height,omitempty"`
}

// ArtifactKeyOpts lists everything that changes a document built from a
// given raster.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	MarginMm      float64 `json:"margin_mm"`
	MaxPages      int     `json:"max_pages"`
	A3MinWidthPx  int     `json:"a3_min_width_px"`
	A3MinHeightPx int     `json:"a3_min_height_px"`
	Standard      string  `json:"standard,omitempty"` // e.g. "A4:210x297"
	Large         string  `json:"large,omitempty"`
	Title         string  `json:"title,omitempty"`
	Author        string  `json:"author,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) RasterKey(recordsHash string, root int, opts RasterKeyOpts) string {
	return hashKey("raster", recordsHash, root, opts)
}

func (DefaultKeyer) ArtifactKey(rasterKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", rasterKey, opts)
}

func (DefaultKeyer) ReportKey(recordsHash string, root int, kind string) string {
	return hashKey("report:"+kind, recordsHash, root)
}

var _ Keyer = DefaultKeyer{}
