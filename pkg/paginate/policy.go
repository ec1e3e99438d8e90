package paginate

import (
	"github.com/matzehuels/heritage/pkg/errors"
)

// Format is a paper size given in portrait orientation.
type Format struct {
	Name     string  `json:"name" toml:"name"`
	WidthMm  float64 `json:"widthMm" toml:"width_mm"`
	HeightMm float64 `json:"heightMm" toml:"height_mm"`
}

var (
	A4 = Format{Name: "A4", WidthMm: 210, HeightMm: 297}
	A3 = Format{Name: "A3", WidthMm: 297, HeightMm: 420}
)

// Oriented returns the page width and height for o.
func (f Format) Oriented(o Orientation) (w, h float64) {
	if o == Landscape {
		return f.HeightMm, f.WidthMm
	}
	return f.WidthMm, f.HeightMm
}

// Orientation of a page.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Short returns the single-letter form used by PDF writers ("P" or "L").
func (o Orientation) Short() string {
	if o == Landscape {
		return "L"
	}
	return "P"
}

// Policy holds the pagination knobs.
//
// The large-format thresholds were tuned against captures at device scale 2
// and are compared with raw device pixels.
type Policy struct {
	MarginMm      float64 `json:"marginMm"`
	MaxPages      int     `json:"maxPages"`
	A3MinWidthPx  int     `json:"a3MinWidthPx"`
	A3MinHeightPx int     `json:"a3MinHeightPx"`
	Standard      Format  `json:"standard"`
	Large         Format  `json:"large"`
}

// DefaultPolicy returns a 10mm margin, at most 50 pages, and A3 above
// 1200px wide or 800px tall.
func DefaultPolicy() Policy {
	return Policy{
		MarginMm:      10,
		MaxPages:      50,
		A3MinWidthPx:  1200,
		A3MinHeightPx: 800,
		Standard:      A4,
		Large:         A3,
	}
}

// Validate checks that every format leaves a printable area inside the
// margins and that the page ceiling is positive.
func (p Policy) Validate() error {
	if p.MarginMm < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative, got %gmm", p.MarginMm)
	}
	if p.MaxPages < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max pages must be at least 1, got %d", p.MaxPages)
	}
	if p.A3MinWidthPx < 0 || p.A3MinHeightPx < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "large-format thresholds must not be negative")
	}
	for _, f := range []Format{p.Standard, p.Large} {
		if f.WidthMm <= 2*p.MarginMm || f.HeightMm <= 2*p.MarginMm {
			return errors.New(errors.ErrCodeInvalidConfig,
				"margin %gmm leaves no printable area on %s (%gx%gmm)", p.MarginMm, f.Name, f.WidthMm, f.HeightMm)
		}
	}
	return nil
}

// WithDefaults fills zero fields from DefaultPolicy. A zero margin is kept.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.MaxPages == 0 {
		p.MaxPages = d.MaxPages
	}
	if p.A3MinWidthPx == 0 {
		p.A3MinWidthPx = d.A3MinWidthPx
	}
	if p.A3MinHeightPx == 0 {
		p.A3MinHeightPx = d.A3MinHeightPx
	}
	if p.Standard == (Format{}) {
		p.Standard = d.Standard
	}
	if p.Large == (Format{}) {
		p.Large = d.Large
	}
	return p
}

// Choose picks format and orientation for a wp×hp raster.
func (p Policy) Choose(wp, hp int) (Format, Orientation) {
	o := Portrait
	if wp > hp {
		o = Landscape
	}
	f := p.Standard
	if wp > p.A3MinWidthPx || hp > p.A3MinHeightPx {
		f = p.Large
	}
	return f, o
}
