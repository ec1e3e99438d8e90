package sink

import (
	"encoding/json"

	"github.com/matzehuels/heritage/pkg/paginate"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	root        int
	rootName    string
	deviceScale float64
	warnings    []string
}

// WithJSONRoot records the tree root in the manifest.
func WithJSONRoot(serNo int, name string) JSONOption {
	return func(r *jsonRenderer) { r.root = serNo; r.rootName = name }
}

// WithJSONDeviceScale records the capture's device scale.
func WithJSONDeviceScale(s float64) JSONOption { return func(r *jsonRenderer) { r.deviceScale = s } }

// WithJSONWarnings includes tree-building warnings.
func WithJSONWarnings(w []string) JSONOption { return func(r *jsonRenderer) { r.warnings = w } }

type jsonOutput struct {
	Root              int             `json:"root,omitempty"`
	RootName          string          `json:"rootName,omitempty"`
	Format            string          `json:"format"`
	Orientation       string          `json:"orientation"`
	Scale             float64         `json:"scale"`
	DeviceScale       float64         `json:"deviceScale,omitempty"`
	SourceWidthPx     int             `json:"sourceWidthPx"`
	SourceHeightPx    int             `json:"sourceHeightPx"`
	ImgWidthMm        float64         `json:"imgWidthMm"`
	ImgHeightMm       float64         `json:"imgHeightMm"`
	AvailableWidthMm  float64         `json:"availableWidthMm"`
	AvailableHeightMm float64         `json:"availableHeightMm"`
	PageCount         int             `json:"pageCount"`
	Pages             []paginate.Page `json:"pages"`
	Warnings          []string        `json:"warnings,omitempty"`
}

// RenderJSON describes l as an indented JSON manifest.
func RenderJSON(l *paginate.Layout, opts ...JSONOption) ([]byte, error) {
	cfg := jsonRenderer{}
	for _, opt := range opts {
		opt(&cfg)
	}
	out := jsonOutput{
		Root:              cfg.root,
		RootName:          cfg.rootName,
		Format:            l.Format.Name,
		Orientation:       string(l.Orientation),
		Scale:             l.Scale,
		DeviceScale:       cfg.deviceScale,
		SourceWidthPx:     l.SourceWidthPx,
		SourceHeightPx:    l.SourceHeightPx,
		ImgWidthMm:        l.ImgWidthMm,
		ImgHeightMm:       l.ImgHeightMm,
		AvailableWidthMm:  l.AvailableWidthMm,
		AvailableHeightMm: l.AvailableHeightMm,
		PageCount:         len(l.Pages),
		Pages:             l.Pages,
		Warnings:          cfg.warnings,
	}
	return json.MarshalIndent(out, "", "  ")
}
