package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/paginate"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	title   string
	author  string
	creator string
}

// WithTitle sets the document title metadata.
func WithTitle(s string) PDFOption { return func(r *pdfRenderer) { r.title = s } }

// WithAuthor sets the document author metadata.
func WithAuthor(s string) PDFOption { return func(r *pdfRenderer) { r.author = s } }

// WithCreator overrides the creator metadata (default "heritage").
func WithCreator(s string) PDFOption { return func(r *pdfRenderer) { r.creator = s } }

// RenderPDF builds a PDF from a raster and its page layout.
func RenderPDF(r capture.Raster, l *paginate.Layout, opts ...PDFOption) ([]byte, error) {
	if l == nil || len(l.Pages) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no pages")
	}
	if r.Image == nil {
		return nil, errors.New(errors.ErrCodeCaptureEmpty, "raster %s has no pixel data", r)
	}

	cfg := pdfRenderer{creator: "heritage"}
	for _, opt := range opts {
		opt(&cfg)
	}

	first := l.Pages[0]
	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr:        "mm",
		OrientationStr: first.Orientation.Short(),
		Size:           portraitSize(first),
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator(cfg.creator, true)
	if cfg.title != "" {
		doc.SetTitle(cfg.title, true)
	}
	if cfg.author != "" {
		doc.SetAuthor(cfg.author, true)
	}

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	for _, pg := range l.Pages {
		doc.AddPageFormat(pg.Orientation.Short(), portraitSize(pg))
		if pg.SourceSliceHeightPx <= 0 {
			continue
		}
		band, err := encodeBand(r.Image, pg.SourceStartPx, pg.SourceSliceHeightPx)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pg.Index, err)
		}
		name := fmt.Sprintf("page-%d", pg.Index)
		doc.RegisterImageOptionsReader(name, opt, band)
		doc.ImageOptions(name, pg.XMm, pg.YMm, pg.DrawWidthMm, pg.DrawHeightMm, false, opt, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// portraitSize returns the page size with the short side first; fpdf swaps
// it for landscape pages.
func portraitSize(pg paginate.Page) fpdf.SizeType {
	return fpdf.SizeType{
		Wd: math.Min(pg.WidthMm, pg.HeightMm),
		Ht: math.Max(pg.WidthMm, pg.HeightMm),
	}
}

// encodeBand crops rows [start, start+height) and flattens them onto white.
func encodeBand(img image.Image, start, height int) (*bytes.Buffer, error) {
	b := img.Bounds()
	rect := image.Rect(b.Min.X, b.Min.Y+start, b.Max.X, b.Min.Y+start+height)
	band := imaging.Crop(img, rect)
	flat := imaging.New(band.Bounds().Dx(), band.Bounds().Dy(), color.White)
	flat = imaging.Overlay(flat, band, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode band: %w", err)
	}
	return &buf, nil
}
