// Package outline draws a tree projection as an indented outline of
// gender-colored cards with elbow connectors, rasterized in-process.
package outline

import (
	"context"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/heritage/pkg/capture"
)

// Layout sizes are in layout pixels and scaled by the capture's device scale.
type Layout struct {
	Padding   float64
	RowHeight float64
	Indent    float64
	CardPadX  float64
}

// DefaultLayout matches the portal's on-screen outline.
var DefaultLayout = Layout{
	Padding:   16,
	RowHeight: 28,
	Indent:    24,
	CardPadX:  8,
}

// Adapter renders with gg. The zero value uses DefaultLayout.
type Adapter struct {
	Layout Layout
}

// New returns an adapter with the given row height, or the default when
// rowHeight is not positive.
func New(rowHeight float64) *Adapter {
	l := DefaultLayout
	if rowHeight > 0 {
		l.RowHeight = rowHeight
	}
	return &Adapter{Layout: l}
}

type card struct {
	x, y, w, h float64
	label      string
	fill       string
}

// Capture draws v.Rows. An empty projection yields an empty raster.
func (a *Adapter) Capture(ctx context.Context, v capture.View, opts capture.Options) (capture.Raster, error) {
	opts = opts.WithDefaults()
	l := a.Layout
	if l.RowHeight <= 0 {
		l = DefaultLayout
	}
	if len(v.Rows) == 0 {
		return capture.Raster{DeviceScale: opts.DeviceScale}, nil
	}

	measure := gg.NewContext(1, 1)
	cards := make([]card, len(v.Rows))
	index := make(map[int]int, len(v.Rows))
	width := 0.0
	for i, r := range v.Rows {
		label := capture.Label(r.Node)
		tw, _ := measure.MeasureString(label)
		c := card{
			x:     l.Padding + float64(r.Depth)*l.Indent,
			y:     l.Padding + float64(i)*l.RowHeight,
			w:     tw + 2*l.CardPadX,
			h:     l.RowHeight - 6,
			label: label,
			fill:  capture.Fill(r.Node.Attributes.Gender),
		}
		cards[i] = c
		index[r.SerNo()] = i
		width = math.Max(width, c.x+c.w+l.Padding)
	}
	height := 2*l.Padding + float64(len(v.Rows))*l.RowHeight

	s := opts.DeviceScale
	dc := gg.NewContext(int(math.Ceil(width*s)), int(math.Ceil(height*s)))
	dc.SetHexColor(opts.Background)
	dc.Clear()
	dc.Scale(s, s)

	dc.SetHexColor("#9ca3af")
	dc.SetLineWidth(1)
	for i, r := range v.Rows {
		p, ok := index[r.ParentSerNo]
		if r.Depth == 0 || !ok {
			continue
		}
		from, to := cards[p], cards[i]
		elbowX := from.x + l.Indent/2
		midY := to.y + to.h/2
		dc.DrawLine(elbowX, from.y+from.h, elbowX, midY)
		dc.DrawLine(elbowX, midY, to.x, midY)
		dc.Stroke()
	}

	for i, c := range cards {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return capture.Raster{}, err
			}
		}
		dc.SetHexColor(c.fill)
		dc.DrawRoundedRectangle(c.x, c.y, c.w, c.h, 4)
		dc.Fill()
		dc.SetHexColor("#111827")
		dc.DrawStringAnchored(c.label, c.x+l.CardPadX, c.y+c.h/2, 0, 0.35)
	}

	return capture.FromImage(dc.Image(), s), nil
}
