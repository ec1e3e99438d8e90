package paginate

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/errors"
)

func raster(w, h int, scale float64) capture.Raster {
	return capture.Raster{Width: w, Height: h, DeviceScale: scale}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestSlicingTwoPages(t *testing.T) {
	got := Slicing(2500, 277, 400)
	// floor(277/400*2500) = floor(1731.25)
	want := []Slice{
		{StartPx: 0, HeightPx: 1731},
		{StartPx: 1731, HeightPx: 769},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Slicing (-want +got):\n%s", diff)
	}
}

func TestSlicingPartitions(t *testing.T) {
	for _, hp := range []int{1, 7, 799, 2500, 10007, 123457} {
		for _, avail := range []float64{100, 190, 277, 400} {
			for _, ratio := range []float64{1.01, 1.5, 2, 2.0000001, 3.33, 7.9, 49.5} {
				imgH := avail * ratio
				s := Slicing(hp, avail, imgH)

				if want := max(int(math.Ceil(imgH/avail)), 2); len(s) != want {
					t.Fatalf("hp=%d avail=%g imgH=%g: %d slices, want %d", hp, avail, imgH, len(s), want)
				}
				next, sum := 0, 0
				for i, sl := range s {
					if sl.StartPx != next {
						t.Fatalf("hp=%d avail=%g imgH=%g: slice %d starts at %d, want %d", hp, avail, imgH, i, sl.StartPx, next)
					}
					if sl.HeightPx < 0 {
						t.Fatalf("negative slice height %d", sl.HeightPx)
					}
					next += sl.HeightPx
					sum += sl.HeightPx
				}
				if sum != hp {
					t.Errorf("hp=%d avail=%g imgH=%g: heights sum to %d", hp, avail, imgH, sum)
				}
			}
		}
	}
}

func TestSlicingBarelyOverflows(t *testing.T) {
	avail := 277.0
	imgH := math.Nextafter(avail, math.Inf(1))
	s := Slicing(2500, avail, imgH)
	if len(s) != 2 {
		t.Fatalf("got %d slices, want 2", len(s))
	}
	if s[0].HeightPx+s[1].HeightPx != 2500 {
		t.Errorf("slices = %+v", s)
	}

	// An exact multiple needs exactly that many pages.
	if got := len(Slicing(3000, 100, 300)); got != 3 {
		t.Errorf("exact multiple: %d slices, want 3", got)
	}
}

func TestSlicingSinglePage(t *testing.T) {
	got := Slicing(500, 277, 277)
	if diff := cmp.Diff([]Slice{{0, 500}}, got); diff != "" {
		t.Errorf("Slicing (-want +got):\n%s", diff)
	}
	if Slicing(0, 277, 100) != nil {
		t.Error("expected nil for empty raster")
	}
}

func TestChoose(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		name       string
		w, h       int
		wantFormat string
		wantOrient Orientation
	}{
		{"small portrait", 300, 600, "A4", Portrait},
		{"small landscape", 700, 300, "A4", Landscape},
		{"square is portrait", 500, 500, "A4", Portrait},
		{"at width threshold", 1200, 100, "A4", Landscape},
		{"over width threshold", 1201, 100, "A3", Landscape},
		{"at height threshold", 100, 800, "A4", Portrait},
		{"over height threshold", 100, 801, "A3", Portrait},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, o := p.Choose(tt.w, tt.h)
			if f.Name != tt.wantFormat || o != tt.wantOrient {
				t.Errorf("Choose(%d, %d) = %s %s, want %s %s", tt.w, tt.h, f.Name, o, tt.wantFormat, tt.wantOrient)
			}
		})
	}
}

func TestChooseConfiguredThresholds(t *testing.T) {
	p := DefaultPolicy()
	p.A3MinWidthPx = 2400
	p.A3MinHeightPx = 1600
	if f, _ := p.Choose(2000, 1000); f.Name != "A4" {
		t.Errorf("format = %s, want A4 with raised thresholds", f.Name)
	}
}

func TestPaginateSinglePageCentered(t *testing.T) {
	l, err := Paginate(raster(400, 200, 1), DefaultPolicy())
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if l.PageCount() != 1 {
		t.Fatalf("pages = %d, want 1", l.PageCount())
	}
	pg := l.Pages[0]
	if pg.Format != "A4" || pg.Orientation != Landscape || pg.WidthMm != 297 || pg.HeightMm != 210 {
		t.Errorf("page = %+v, want A4 landscape 297x210", pg)
	}
	if pg.SourceStartPx != 0 || pg.SourceSliceHeightPx != 200 {
		t.Errorf("slice = [%d,+%d), want whole raster", pg.SourceStartPx, pg.SourceSliceHeightPx)
	}
	if !approx(l.Scale, 277.0/400) || !approx(l.ImgHeightMm, 138.5) {
		t.Errorf("scale=%g imgH=%g", l.Scale, l.ImgHeightMm)
	}
	if !approx(pg.XMm, 10) || !approx(pg.YMm, (210-138.5)/2) {
		t.Errorf("placement = (%g, %g), want centered", pg.XMm, pg.YMm)
	}
	if !approx(pg.DrawWidthMm, 277) || !approx(pg.DrawHeightMm, 138.5) {
		t.Errorf("draw size = %gx%g", pg.DrawWidthMm, pg.DrawHeightMm)
	}
}

func TestPaginateMultiPage(t *testing.T) {
	// 1000x3000 device px at 2x is 500x1500 layout px: A3 portrait,
	// scale 277/500, image height 831mm over 400mm pages.
	l, err := Paginate(raster(1000, 3000, 2), DefaultPolicy())
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if l.Format.Name != "A3" || l.Orientation != Portrait {
		t.Errorf("format = %s %s, want A3 portrait", l.Format.Name, l.Orientation)
	}
	if !approx(l.ImgHeightMm, 831) {
		t.Errorf("imgH = %g, want 831", l.ImgHeightMm)
	}
	if l.PageCount() != 3 {
		t.Fatalf("pages = %d, want 3", l.PageCount())
	}

	sum, drawn := 0, 0.0
	for i, pg := range l.Pages {
		if pg.Index != i {
			t.Errorf("page %d has index %d", i, pg.Index)
		}
		if pg.XMm != 10 || pg.YMm != 10 {
			t.Errorf("page %d placement = (%g, %g), want top-anchored at margin", i, pg.XMm, pg.YMm)
		}
		if pg.DrawHeightMm > l.AvailableHeightMm+1e-6 {
			t.Errorf("page %d draws %gmm, exceeds %gmm", i, pg.DrawHeightMm, l.AvailableHeightMm)
		}
		sum += pg.SourceSliceHeightPx
		drawn += pg.DrawHeightMm
	}
	if sum != 3000 {
		t.Errorf("slice heights sum to %d, want 3000", sum)
	}
	if !approx(drawn, l.ImgHeightMm) {
		t.Errorf("drawn height %g, want %g", drawn, l.ImgHeightMm)
	}
}

func TestPaginateErrors(t *testing.T) {
	tests := []struct {
		name   string
		r      capture.Raster
		policy Policy
		code   errors.Code
	}{
		{"empty", raster(0, 0, 2), DefaultPolicy(), errors.ErrCodeCaptureEmpty},
		{"zero width", raster(0, 500, 2), DefaultPolicy(), errors.ErrCodeCaptureEmpty},
		{"zero height", raster(500, 0, 2), DefaultPolicy(), errors.ErrCodeCaptureEmpty},
		{"too many pages", raster(100, 100000, 1), DefaultPolicy(), errors.ErrCodeContentTooLarge},
		{"margin too wide", raster(100, 100, 1), Policy{MarginMm: 200, MaxPages: 5, Standard: A4, Large: A3}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Paginate(tt.r, tt.policy)
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if l != nil {
				t.Error("layout returned alongside error")
			}
		})
	}
}

func TestPaginateMaxPagesBoundary(t *testing.T) {
	// A4 portrait at scale 1: width 190mm for 190px, so 1mm per pixel and
	// 277 rows per page.
	p := DefaultPolicy()
	p.MaxPages = 2
	if _, err := Paginate(raster(190, 554, 1), p); err != nil {
		t.Errorf("two full pages rejected: %v", err)
	}
	if _, err := Paginate(raster(190, 555, 1), p); !errors.Is(err, errors.ErrCodeContentTooLarge) {
		t.Errorf("err = %v, want CONTENT_TOO_LARGE", err)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("default policy invalid: %v", err)
	}
	bad := []Policy{
		{MarginMm: -1, MaxPages: 1, Standard: A4, Large: A3},
		{MarginMm: 10, MaxPages: 0, Standard: A4, Large: A3},
		{MarginMm: 105, MaxPages: 1, Standard: A4, Large: A3},
		{MarginMm: 10, MaxPages: 1, A3MinWidthPx: -5, Standard: A4, Large: A3},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Validate(%+v) = %v, want INVALID_CONFIG", p, err)
		}
	}
}

func TestPolicyWithDefaults(t *testing.T) {
	got := Policy{MarginMm: 5}.WithDefaults()
	want := DefaultPolicy()
	want.MarginMm = 5
	if got != want {
		t.Errorf("WithDefaults = %+v, want %+v", got, want)
	}
}
