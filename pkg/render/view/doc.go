// Package view holds the expand/collapse state of a rendered family tree and
// projects a [genealogy.Tree] into the rows a renderer draws.
//
// # Expand State
//
// A [Model] owns a single map from serNo to "expanded". Ids that were never
// set are expanded. [Model.Toggle] flips exactly one entry and never touches
// descendants.
//
// # Export Snapshots
//
// Exports must show the whole tree without disturbing what the user sees:
//
//	exportModel := interactive.ForExport(tree)
//	rows := exportModel.Project(tree)
//
// ForExport copies the state and expands every node in the copy. The
// interactive model is unchanged.
//
// # Projection
//
// [Project] walks the tree in pre-order and stops descending at collapsed
// nodes, so descendants of a collapsed node never appear whatever their own
// flag says.
package view
