// Package render groups the stages that turn a built tree into output.
//
// # Overview
//
//   - [view]: expand/collapse state and the row projection renderers draw
//   - [sink]: document writers for a paginated raster (PDF, PNG, JSON)
//
// Capture sits between the two and lives in the capture package, since
// adapters may run outside the process (a headless browser).
//
//	rows := view.NewModel().ForExport(tree).Project(tree)
//	raster, err := adapter.Capture(ctx, capture.View{Tree: tree, Rows: rows}, opts)
//	layout, err := paginate.Paginate(raster, policy)
//	pdf, err := sink.RenderPDF(raster, layout)
//
// [view]: github.com/matzehuels/heritage/pkg/render/view
// [sink]: github.com/matzehuels/heritage/pkg/render/sink
package render
