package sink

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/errors"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	maxWidth int
}

// WithMaxWidth downsamples the image to at most w pixels wide.
func WithMaxWidth(w int) PNGOption { return func(r *pngRenderer) { r.maxWidth = w } }

// RenderPNG encodes the full raster.
func RenderPNG(r capture.Raster, opts ...PNGOption) ([]byte, error) {
	if r.Image == nil || r.Empty() {
		return nil, errors.New(errors.ErrCodeCaptureEmpty, "raster %s has no pixel data", r)
	}
	cfg := pngRenderer{}
	for _, opt := range opts {
		opt(&cfg)
	}

	img := r.Image
	if cfg.maxWidth > 0 && r.Width > cfg.maxWidth {
		img = imaging.Resize(img, cfg.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
