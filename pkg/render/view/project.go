package view

import "github.com/matzehuels/heritage/pkg/genealogy"

// Row is one visible node in a projection.
type Row struct {
	Node        *genealogy.TreeNode `json:"node"`
	Depth       int                 `json:"depth"`
	ParentSerNo int                 `json:"parentSerNo"` // 0 for the root
	HasChildren bool                `json:"hasChildren"`
	Expanded    bool                `json:"expanded"`
}

// SerNo returns the row's member id.
func (r Row) SerNo() int { return r.Node.SerNo() }

// Project lists the visible nodes of tree in pre-order. Children of a node
// whose flag in state is false are omitted along with their whole subtrees.
func Project(tree *genealogy.Tree, state ExpandState) []Row {
	var rows []Row
	tree.Walk(func(n *genealogy.TreeNode, depth int, parent *genealogy.TreeNode) bool {
		expanded := state.IsExpanded(n.SerNo())
		r := Row{
			Node:        n,
			Depth:       depth,
			HasChildren: len(n.Children) > 0,
			Expanded:    expanded,
		}
		if parent != nil {
			r.ParentSerNo = parent.SerNo()
		}
		rows = append(rows, r)
		return expanded
	})
	return rows
}

// Extent is the size of a projection in rows and indent levels.
type Extent struct {
	Rows     int
	MaxDepth int
}

// Measure returns the extent of rows.
func Measure(rows []Row) Extent {
	e := Extent{Rows: len(rows)}
	for _, r := range rows {
		if r.Depth > e.MaxDepth {
			e.MaxDepth = r.Depth
		}
	}
	return e
}
