// Package paginate fits a captured raster onto printable pages.
//
// # Algorithm
//
// [Paginate] works in four steps:
//
//  1. Orientation: landscape when the raster is wider than tall, portrait
//     otherwise (square is portrait). Format: the large format (A3) when the
//     raster exceeds either pixel threshold of the [Policy], else A4.
//  2. Width fit: the raster is scaled so its width exactly fills the
//     printable width. Content is never split horizontally.
//  3. Single page: when the scaled height fits the printable height, one
//     page shows the whole raster centered on both axes.
//  4. Multi-page: otherwise the raster is cut into horizontal bands, one per
//     page, each drawn at the top-left margin. The last band takes whatever
//     rows remain, so the bands partition [0, Hp) exactly.
//
// # Units
//
// Raster sizes are device pixels. Dividing by the raster's device scale
// gives layout pixels, which is what the width-fit scale is computed from.
// Page geometry is in millimetres.
//
// # Failure
//
// An empty raster fails with CAPTURE_EMPTY and a layout needing more than
// Policy.MaxPages pages fails with CONTENT_TOO_LARGE. In both cases no pages
// are returned.
package paginate
