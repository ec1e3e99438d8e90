package pipeline

import (
	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/capture/browser"
	"github.com/matzehuels/heritage/pkg/capture/nodelink"
	"github.com/matzehuels/heritage/pkg/capture/outline"
	"github.com/matzehuels/heritage/pkg/errors"
)

// Capture adapter names.
const (
	AdapterOutline  = "outline"
	AdapterNodelink = "nodelink"
	AdapterBrowser  = "browser"
)

// DefaultAdapter needs no external binaries.
const DefaultAdapter = AdapterOutline

// ValidAdapters is the set of built-in capture adapters.
var ValidAdapters = map[string]bool{
	AdapterOutline:  true,
	AdapterNodelink: true,
	AdapterBrowser:  true,
}

// ValidateAdapter checks that an adapter name is known.
func ValidateAdapter(name string) error {
	if !ValidAdapters[name] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid adapter: %q (must be one of: outline, nodelink, browser)", name)
	}
	return nil
}

// AdapterConfig carries adapter-specific settings.
type AdapterConfig struct {
	RowHeight  float64
	Detailed   bool
	ControlURL string
}

// NewAdapter constructs a built-in adapter by name.
func NewAdapter(name string, cfg AdapterConfig) (capture.Adapter, error) {
	switch name {
	case AdapterOutline:
		return outline.New(cfg.RowHeight), nil
	case AdapterNodelink:
		return nodelink.Adapter{Detailed: cfg.Detailed}, nil
	case AdapterBrowser:
		return browser.Adapter{ControlURL: cfg.ControlURL}, nil
	default:
		return nil, ValidateAdapter(name)
	}
}
