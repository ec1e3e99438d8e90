// Package capture defines how a projected family tree becomes pixels.
//
// # Adapters
//
// An [Adapter] turns a [View] (the tree plus its visible rows) into a
// [Raster]. Capture blocks until the raster is complete; there is no settle
// delay to tune. Adapters that drive something asynchronous, such as a
// browser, wait on that system's own readiness signal before returning.
//
// Reference adapters live in subpackages:
//
//   - [outline]: indented outline drawn in-process with fogleman/gg
//   - [nodelink]: Graphviz node-link diagram
//   - [browser]: HTML cards screenshotted by headless Chrome
//
// # Timeouts
//
// [WithTimeout] bounds a capture. When the deadline passes the wrapper
// returns EXPORT_TIMEOUT; other adapter failures become CAPTURE_ERROR.
//
// # Testing
//
// [Static] and [Func] build adapters from a fixed raster or a closure, so
// the export pipeline can be tested without any renderer.
//
// [outline]: github.com/matzehuels/heritage/pkg/capture/outline
// [nodelink]: github.com/matzehuels/heritage/pkg/capture/nodelink
// [browser]: github.com/matzehuels/heritage/pkg/capture/browser
package capture
