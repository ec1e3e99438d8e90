// Package nodelink renders a tree projection as a Graphviz node-link
// diagram.
//
// # Usage
//
// Convert the visible rows to DOT, then render:
//
//	dot := nodelink.ToDOT(rows, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// As a capture adapter, [Adapter] renders PNG at 96 DPI times the device
// scale and decodes it into the raster:
//
//	raster, err := nodelink.Adapter{}.Capture(ctx, v, capture.Options{DeviceScale: 2})
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded,
// gender-colored boxes. Spouses are shown inside the member's box rather
// than as separate nodes, so the diagram has exactly one node per row and
// one edge per parent/child pair.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly. No system binaries are required.
package nodelink
