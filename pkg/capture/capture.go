package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/matzehuels/heritage/pkg/genealogy"
	"github.com/matzehuels/heritage/pkg/render/view"
)

// DefaultDeviceScale is the pixel density used when Options leaves it unset.
const DefaultDeviceScale = 2.0

// View is what an adapter draws.
type View struct {
	Tree *genealogy.Tree
	Rows []view.Row
	// Strategy names the adapter drawing the view, e.g. "outline".
	Strategy string
}

// Options control a single capture.
type Options struct {
	// DeviceScale is device pixels per layout pixel.
	DeviceScale float64
	// Background is a hex color such as "#ffffff". Empty means white.
	Background string
}

// WithDefaults returns o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.DeviceScale <= 0 {
		o.DeviceScale = DefaultDeviceScale
	}
	if o.Background == "" {
		o.Background = "#ffffff"
	}
	return o
}

// Raster is a captured bitmap. Width and Height are in device pixels.
type Raster struct {
	Width       int
	Height      int
	Image       image.Image
	DeviceScale float64
}

// FromImage wraps img, taking its bounds as the raster size.
func FromImage(img image.Image, deviceScale float64) Raster {
	if img == nil {
		return Raster{DeviceScale: deviceScale}
	}
	b := img.Bounds()
	return Raster{Width: b.Dx(), Height: b.Dy(), Image: img, DeviceScale: deviceScale}
}

// Empty reports whether the raster has no pixels.
func (r Raster) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Scale returns DeviceScale, or 1 when it is unset.
func (r Raster) Scale() float64 {
	if r.DeviceScale <= 0 {
		return 1
	}
	return r.DeviceScale
}

func (r Raster) String() string {
	return fmt.Sprintf("%dx%d@%gx", r.Width, r.Height, r.Scale())
}

// Adapter produces a raster from a view.
type Adapter interface {
	Capture(ctx context.Context, v View, opts Options) (Raster, error)
}

// Func adapts a function to the Adapter interface.
type Func func(ctx context.Context, v View, opts Options) (Raster, error)

// Capture calls f.
func (f Func) Capture(ctx context.Context, v View, opts Options) (Raster, error) {
	return f(ctx, v, opts)
}

// Static returns an adapter that always yields r.
func Static(r Raster) Adapter {
	return Func(func(ctx context.Context, _ View, _ Options) (Raster, error) {
		if err := ctx.Err(); err != nil {
			return Raster{}, err
		}
		return r, nil
	})
}
