package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/render/view"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds vansh, level, and sibling count lines to each label.
	Detailed bool
	// DPI sets the graph resolution. Zero leaves Graphviz's default.
	DPI float64
	// Background is the canvas color. Empty means transparent.
	Background string
}

// ToDOT converts projected rows to Graphviz DOT source.
// Children of collapsed rows are already absent from rows and so are not
// drawn.
func ToDOT(rows []view.Row, opts Options) string {
	bg := opts.Background
	if bg == "" {
		bg = "transparent"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	if opts.DPI > 0 {
		fmt.Fprintf(&buf, "  dpi=%s;\n", strconv.FormatFloat(opts.DPI, 'f', -1, 64))
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, r := range rows {
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(r, opts.Detailed)),
			fmt.Sprintf("fillcolor=%q", capture.Fill(r.Node.Attributes.Gender)),
		}
		if r.HasChildren && !r.Expanded {
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", r.SerNo(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range rows {
		if r.Depth == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", r.ParentSerNo, r.SerNo())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(r view.Row, detailed bool) string {
	label := capture.Label(r.Node)
	if !detailed {
		return label
	}
	a := r.Node.Attributes
	parts := []string{fmt.Sprintf("level: %d", a.Level)}
	if a.Vansh != "" {
		parts = append(parts, "vansh: "+a.Vansh)
	}
	if a.SonDaughterCount > 0 {
		parts = append(parts, fmt.Sprintf("children: %d", a.SonDaughterCount))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSVG renders DOT source to SVG with a size-normalized root element.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so that width and height equal
// the viewBox size in user units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
