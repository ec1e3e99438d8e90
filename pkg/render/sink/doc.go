// Package sink writes paginated exports to document formats.
//
// # Formats
//
//   - [RenderPDF]: one PDF page per [paginate.Page], each showing its raster
//     band at the page's placement rectangle
//   - [RenderPNG]: the full raster as a single PNG
//   - [RenderJSON]: a page manifest describing the layout without pixels
//
// Sinks produce bytes in memory. Nothing is written anywhere until the whole
// document has been built, so a failed export leaves no partial file.
//
// [paginate.Page]: github.com/matzehuels/heritage/pkg/paginate.Page
package sink
