// Package pipeline runs the heritage export pipeline.
//
// This package implements the build → expand → capture → paginate → render
// sequence shared by the CLI and the API server, so both produce identical
// documents for identical records and options.
//
// # Architecture
//
//  1. Build: reconstruct the descendant tree of a root member
//  2. Expand: snapshot the view model and expand every node
//  3. Capture: rasterize the projection with a capture adapter
//  4. Paginate: choose a paper format and slice the raster into pages
//  5. Render: emit PDF, PNG and JSON page manifests
//
// Every export owns its view snapshot, raster and pages; only the record set
// is shared. A failing stage aborts the export before anything is emitted.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger, pipeline.WithStore(store))
//	res, err := runner.Export(ctx, records, pipeline.Options{
//	    Root:    1,
//	    Formats: []string{pipeline.FormatPDF},
//	})
//	if err != nil {
//	    return err
//	}
//	pdf := res.Artifacts[pipeline.FormatPDF]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/heritage/pkg/cache"
	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/genealogy"
	"github.com/matzehuels/heritage/pkg/paginate"
	"github.com/matzehuels/heritage/pkg/render/view"
)

const (
	// DefaultTimeout bounds a single capture.
	DefaultTimeout = 60 * time.Second

	// DefaultTitle is the document title when none is given.
	DefaultTitle = "Family Tree"

	// DefaultConcurrency bounds parallel exports in ExportBatch.
	DefaultConcurrency = 4
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// Options configures one export.
type Options struct {
	Root        int             `json:"root"`
	Adapter     string          `json:"adapter,omitempty"`
	Formats     []string        `json:"formats,omitempty"`
	DeviceScale float64         `json:"device_scale,omitempty"`
	Background  string          `json:"background,omitempty"`
	RowHeight   float64         `json:"row_height,omitempty"`
	Policy      paginate.Policy `json:"policy"`
	Title       string          `json:"title,omitempty"`
	Author      string          `json:"author,omitempty"`
	Refresh     bool            `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Timeout time.Duration `json:"-"`
	Logger  *log.Logger   `json:"-"`
	// Model is the interactive view model. Export reads a snapshot of it
	// and never modifies it. Nil means a fresh model.
	Model *view.Model `json:"-"`

	validated bool
}

// Result contains the outputs of an export.
type Result struct {
	Tree      *genealogy.Tree
	Rows      int
	Raster    capture.Raster
	Layout    *paginate.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	NodeCount    int
	WarningCount int
	PageCount    int
	BuildTime    time.Duration
	CaptureTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks which stages were served from cache.
type CacheInfo struct {
	RasterHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: pdf, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateSerNo(o.Root); err != nil {
		return err
	}
	if o.Adapter == "" {
		o.Adapter = DefaultAdapter
	}
	if err := ValidateAdapter(o.Adapter); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.DeviceScale <= 0 {
		o.DeviceScale = capture.DefaultDeviceScale
	}
	if o.Background == "" {
		o.Background = "#ffffff"
	}
	if o.Policy == (paginate.Policy{}) {
		o.Policy = paginate.DefaultPolicy()
	} else {
		o.Policy = o.Policy.WithDefaults()
	}
	if err := o.Policy.Validate(); err != nil {
		return err
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CaptureOptions returns the adapter options for this export.
func (o *Options) CaptureOptions() capture.Options {
	return capture.Options{DeviceScale: o.DeviceScale, Background: o.Background}
}

// RasterKeyOpts returns cache key options for the capture stage.
func (o *Options) RasterKeyOpts() cache.RasterKeyOpts {
	return cache.RasterKeyOpts{
		Adapter:     o.Adapter,
		DeviceScale: o.DeviceScale,
		Background:  o.Background,
		RowHeight:   o.RowHeight,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:        format,
		MarginMm:      o.Policy.MarginMm,
		MaxPages:      o.Policy.MaxPages,
		A3MinWidthPx:  o.Policy.A3MinWidthPx,
		A3MinHeightPx: o.Policy.A3MinHeightPx,
		Standard:      formatKey(o.Policy.Standard),
		Large:         formatKey(o.Policy.Large),
		Title:         o.Title,
		Author:        o.Author,
	}
}

func formatKey(f paginate.Format) string {
	return fmt.Sprintf("%s:%gx%g", f.Name, f.WidthMm, f.HeightMm)
}

// String summarizes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("root=%d adapter=%s formats=%v", o.Root, o.Adapter, o.Formats)
}
