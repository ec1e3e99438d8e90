package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/matzehuels/heritage/pkg/capture"
)

// baseDPI is Graphviz's pixel density for one layout pixel per point.
const baseDPI = 96

// Adapter captures a view as a rendered Graphviz diagram.
type Adapter struct {
	Detailed bool
}

// Capture renders v.Rows to PNG and decodes it.
func (a Adapter) Capture(ctx context.Context, v capture.View, opts capture.Options) (capture.Raster, error) {
	opts = opts.WithDefaults()
	if len(v.Rows) == 0 {
		return capture.Raster{DeviceScale: opts.DeviceScale}, nil
	}

	dot := ToDOT(v.Rows, Options{
		Detailed:   a.Detailed,
		DPI:        baseDPI * opts.DeviceScale,
		Background: opts.Background,
	})
	data, err := RenderPNG(ctx, dot)
	if err != nil {
		return capture.Raster{}, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return capture.Raster{}, fmt.Errorf("decode graphviz png: %w", err)
	}
	return capture.FromImage(img, opts.DeviceScale), nil
}
