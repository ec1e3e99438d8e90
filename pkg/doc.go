// Package pkg provides the core libraries for heritage family-tree exports.
//
// # Overview
//
// Heritage reconstructs descendant trees from flat member records and
// exports them as paginated documents. The pkg directory is organized as:
//
//  1. [family], [io], [source] - records and where they come from
//  2. [genealogy] - tree reconstruction with cycle and dangling-reference handling
//  3. [render/view], [capture] - expand state, projection and rasterization
//  4. [paginate], [render/sink] - page layout and document writers
//  5. [report] - text, Word and HTML reports and profiles
//  6. [pipeline] - orchestration shared by the CLI and the API server
//  7. [cache], [blob], [observability] - infrastructure
//
// # Architecture
//
//	records (file, SQLite, Postgres, MongoDB)
//	         ↓
//	    [genealogy] BuildTree
//	         ↓
//	    [render/view] ForExport + Project
//	         ↓
//	    [capture] adapter (outline, nodelink, browser)
//	         ↓
//	    [paginate] A4/A3 selection and slicing
//	         ↓
//	    PDF / PNG / JSON
//
// # Quick Start
//
//	records, _ := source.Load(ctx, "family.json")
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Export(ctx, records, pipeline.Options{Root: 1})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("tree.pdf", res.Artifacts[pipeline.FormatPDF], 0o644)
//
// [family]: github.com/matzehuels/heritage/pkg/family
// [io]: github.com/matzehuels/heritage/pkg/io
// [source]: github.com/matzehuels/heritage/pkg/source
// [genealogy]: github.com/matzehuels/heritage/pkg/genealogy
// [render/view]: github.com/matzehuels/heritage/pkg/render/view
// [capture]: github.com/matzehuels/heritage/pkg/capture
// [paginate]: github.com/matzehuels/heritage/pkg/paginate
// [render/sink]: github.com/matzehuels/heritage/pkg/render/sink
// [report]: github.com/matzehuels/heritage/pkg/report
// [pipeline]: github.com/matzehuels/heritage/pkg/pipeline
// [cache]: github.com/matzehuels/heritage/pkg/cache
// [blob]: github.com/matzehuels/heritage/pkg/blob
// [observability]: github.com/matzehuels/heritage/pkg/observability
package pkg
