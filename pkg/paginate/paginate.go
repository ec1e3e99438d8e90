package paginate

import (
	"math"

	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/errors"
)

// Page is one output page and the raster band drawn on it.
type Page struct {
	Index               int         `json:"index"`
	Format              string      `json:"format"`
	Orientation         Orientation `json:"orientation"`
	WidthMm             float64     `json:"widthMm"`
	HeightMm            float64     `json:"heightMm"`
	SourceStartPx       int         `json:"sourceStartPx"`
	SourceSliceHeightPx int         `json:"sourceSliceHeightPx"`

	// Placement of the band on the page.
	XMm          float64 `json:"xMm"`
	YMm          float64 `json:"yMm"`
	DrawWidthMm  float64 `json:"drawWidthMm"`
	DrawHeightMm float64 `json:"drawHeightMm"`
}

// Layout is the result of Paginate.
type Layout struct {
	Format            Format      `json:"format"`
	Orientation       Orientation `json:"orientation"`
	Scale             float64     `json:"scale"` // mm per layout pixel
	ImgWidthMm        float64     `json:"imgWidthMm"`
	ImgHeightMm       float64     `json:"imgHeightMm"`
	AvailableWidthMm  float64     `json:"availableWidthMm"`
	AvailableHeightMm float64     `json:"availableHeightMm"`
	SourceWidthPx     int         `json:"sourceWidthPx"`
	SourceHeightPx    int         `json:"sourceHeightPx"`
	Pages             []Page      `json:"pages"`
}

// PageCount returns len(l.Pages).
func (l *Layout) PageCount() int { return len(l.Pages) }

// Paginate computes the page layout for r under policy p.
func Paginate(r capture.Raster, p Policy) (*Layout, error) {
	if r.Empty() {
		return nil, errors.New(errors.ErrCodeCaptureEmpty, "captured image is empty (%dx%d)", r.Width, r.Height)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	wp, hp := r.Width, r.Height
	s := r.Scale()
	format, orient := p.Choose(wp, hp)
	pageW, pageH := format.Oriented(orient)
	m := p.MarginMm

	l := &Layout{
		Format:            format,
		Orientation:       orient,
		AvailableWidthMm:  pageW - 2*m,
		AvailableHeightMm: pageH - 2*m,
		SourceWidthPx:     wp,
		SourceHeightPx:    hp,
	}
	l.Scale = l.AvailableWidthMm / (float64(wp) / s)
	l.ImgWidthMm = l.AvailableWidthMm
	l.ImgHeightMm = (float64(hp) / s) * l.Scale

	page := func(i int) Page {
		return Page{
			Index:       i,
			Format:      format.Name,
			Orientation: orient,
			WidthMm:     pageW,
			HeightMm:    pageH,
			DrawWidthMm: l.AvailableWidthMm,
		}
	}

	if l.ImgHeightMm <= l.AvailableHeightMm {
		pg := page(0)
		pg.SourceStartPx = 0
		pg.SourceSliceHeightPx = hp
		pg.DrawHeightMm = l.ImgHeightMm
		pg.XMm = (pageW - l.AvailableWidthMm) / 2
		pg.YMm = (pageH - l.ImgHeightMm) / 2
		l.Pages = []Page{pg}
		return l, nil
	}

	total := pageCount(l.ImgHeightMm, l.AvailableHeightMm)
	if total > p.MaxPages {
		return nil, errors.New(errors.ErrCodeContentTooLarge,
			"tree needs %d pages, limit is %d", total, p.MaxPages)
	}

	slices := Slicing(hp, l.AvailableHeightMm, l.ImgHeightMm)
	pages := make([]Page, len(slices))
	for i, sl := range slices {
		pg := page(i)
		pg.SourceStartPx = sl.StartPx
		pg.SourceSliceHeightPx = sl.HeightPx
		pg.XMm = m
		pg.YMm = m
		pg.DrawHeightMm = float64(sl.HeightPx) / float64(hp) * l.ImgHeightMm
		pages[i] = pg
	}
	l.Pages = pages
	return l, nil
}

// pageCount is ceil(imgH/avail) for a height that overflows one page. A
// quotient that rounds down to exactly 1 still needs a second page.
func pageCount(imgH, avail float64) int {
	return max(int(math.Ceil(imgH/avail)), 2)
}

// Slice is a band of raster rows [StartPx, StartPx+HeightPx).
type Slice struct {
	StartPx  int
	HeightPx int
}

// Slicing cuts hp rows into ceil(imgH/avail) bands. Each band but the last
// covers avail/imgH of the rows, rounded down at both ends; the last band
// takes the remainder, so heights always sum to hp.
func Slicing(hp int, avail, imgH float64) []Slice {
	if hp <= 0 || avail <= 0 || imgH <= 0 {
		return nil
	}
	if imgH <= avail {
		return []Slice{{StartPx: 0, HeightPx: hp}}
	}
	total := pageCount(imgH, avail)
	out := make([]Slice, total)
	used := 0
	for i := 0; i < total; i++ {
		start := int(math.Floor(float64(i) * avail / imgH * float64(hp)))
		if i == total-1 {
			out[i] = Slice{StartPx: start, HeightPx: hp - used}
			break
		}
		end := int(math.Floor(float64(i+1) * avail / imgH * float64(hp)))
		out[i] = Slice{StartPx: start, HeightPx: end - start}
		used += end - start
	}
	return out
}
