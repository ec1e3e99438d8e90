package sink

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/paginate"
)

func stripes(w, h int) capture.Raster {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := color.RGBA{R: uint8(y % 256), G: 100, B: 200, A: 255}
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return capture.FromImage(img, 1)
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read back pdf: %v", err)
	}
	return r.NumPage()
}

func TestRenderPDFPageCount(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"single page", 400, 200},
		{"three pages", 190, 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := stripes(tt.w, tt.h)
			l, err := paginate.Paginate(r, paginate.DefaultPolicy())
			if err != nil {
				t.Fatalf("Paginate: %v", err)
			}
			data, err := RenderPDF(r, l, WithTitle("Family of A"))
			if err != nil {
				t.Fatalf("RenderPDF: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Fatal("output is not a PDF")
			}
			if got := pageCount(t, data); got != l.PageCount() {
				t.Errorf("pdf has %d pages, layout has %d", got, l.PageCount())
			}
		})
	}
}

func TestRenderPDFRejects(t *testing.T) {
	r := stripes(10, 10)
	if _, err := RenderPDF(r, &paginate.Layout{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty layout err = %v, want INVALID_INPUT", err)
	}
	l, _ := paginate.Paginate(r, paginate.DefaultPolicy())
	if _, err := RenderPDF(capture.Raster{Width: 10, Height: 10}, l); !errors.Is(err, errors.ErrCodeCaptureEmpty) {
		t.Errorf("no pixels err = %v, want CAPTURE_EMPTY", err)
	}
}

func TestEncodeBand(t *testing.T) {
	buf, err := encodeBand(stripes(20, 100).Image, 30, 25)
	if err != nil {
		t.Fatalf("encodeBand: %v", err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 25 {
		t.Fatalf("band size = %v, want 20x25", b)
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	if uint8(r>>8) != 30 {
		t.Errorf("first band row red = %d, want 30", r>>8)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(stripes(300, 50), WithMaxWidth(150))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 150 || cfg.Height != 25 {
		t.Errorf("size = %dx%d, want 150x25", cfg.Width, cfg.Height)
	}

	if _, err := RenderPNG(capture.Raster{}); !errors.Is(err, errors.ErrCodeCaptureEmpty) {
		t.Errorf("err = %v, want CAPTURE_EMPTY", err)
	}
}

func TestRenderJSON(t *testing.T) {
	l, err := paginate.Paginate(capture.Raster{Width: 190, Height: 700, DeviceScale: 1}, paginate.DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderJSON(l, WithJSONRoot(1, "A"), WithJSONWarnings([]string{"w"}))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var out struct {
		Root      int             `json:"root"`
		PageCount int             `json:"pageCount"`
		Pages     []paginate.Page `json:"pages"`
		Warnings  []string        `json:"warnings"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Root != 1 || out.PageCount != 3 || len(out.Pages) != 3 || len(out.Warnings) != 1 {
		t.Errorf("manifest = %+v", out)
	}
}
