package genealogy

import (
	"fmt"

	"github.com/matzehuels/heritage/pkg/family"
)

// Attributes carries the per-node data shown next to a member's name.
// Spouse fields are zero when the spouse could not be resolved.
type Attributes struct {
	SerNo            int           `json:"serNo"`
	Gender           family.Gender `json:"gender"`
	Vansh            string        `json:"vansh,omitempty"`
	Level            int           `json:"level"`
	SpouseName       string        `json:"spouseName,omitempty"`
	SpouseSerNo      int           `json:"spouseSerNo,omitempty"`
	SonDaughterCount int           `json:"sonDaughterCount"`
	Biography        string        `json:"biography,omitempty"`
	Occupation       string        `json:"occupation,omitempty"`
	DateOfBirth      string        `json:"dateOfBirth,omitempty"`
}

// TreeNode is one member in a built tree.
type TreeNode struct {
	Name       string      `json:"name"`
	Attributes Attributes  `json:"attributes"`
	Children   []*TreeNode `json:"children,omitempty"`
}

// SerNo returns the member's serial number.
func (n *TreeNode) SerNo() int { return n.Attributes.SerNo }

// HasSpouse reports whether a spouse was resolved for this node.
func (n *TreeNode) HasSpouse() bool { return n.Attributes.SpouseSerNo != 0 }

// WarningKind classifies a non-fatal problem found while building a tree.
type WarningKind string

const (
	WarnMissingChild  WarningKind = "missing_child"
	WarnCycle         WarningKind = "cycle"
	WarnDuplicate     WarningKind = "duplicate"
	WarnMissingSpouse WarningKind = "missing_spouse"
)

// Warning records a reference the builder had to drop.
type Warning struct {
	Kind        WarningKind `json:"kind"`
	SerNo       int         `json:"serNo"`       // the referenced id that was dropped
	ParentSerNo int         `json:"parentSerNo"` // the member holding the reference
	Message     string      `json:"message"`
}

func (w Warning) String() string {
	if w.Message != "" {
		return w.Message
	}
	return w.describe()
}

func (w Warning) describe() string {
	switch w.Kind {
	case WarnMissingChild:
		return fmt.Sprintf("member #%d lists child #%d which has no record", w.ParentSerNo, w.SerNo)
	case WarnCycle:
		return fmt.Sprintf("member #%d lists ancestor #%d as a child; branch truncated", w.ParentSerNo, w.SerNo)
	case WarnDuplicate:
		return fmt.Sprintf("member #%d lists child #%d which already appears in the tree", w.ParentSerNo, w.SerNo)
	case WarnMissingSpouse:
		return fmt.Sprintf("member #%d names spouse #%d which has no record", w.ParentSerNo, w.SerNo)
	default:
		return fmt.Sprintf("%s: #%d -> #%d", w.Kind, w.ParentSerNo, w.SerNo)
	}
}

// Tree is the result of [Graph.BuildTree].
type Tree struct {
	Root     *TreeNode `json:"root"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Walk visits every node in pre-order. depth is 0 for the root and parent is
// nil for the root. Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(n *TreeNode, depth int, parent *TreeNode) bool) {
	if t == nil || t.Root == nil {
		return
	}
	var visit func(n *TreeNode, depth int, parent *TreeNode)
	visit = func(n *TreeNode, depth int, parent *TreeNode) {
		if !fn(n, depth, parent) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1, n)
		}
	}
	visit(t.Root, 0, nil)
}

// NodeCount returns the number of nodes in the tree.
func (t *Tree) NodeCount() int {
	n := 0
	t.Walk(func(*TreeNode, int, *TreeNode) bool { n++; return true })
	return n
}

// MaxDepth returns the number of generations in the tree (1 for a lone root,
// 0 for an empty tree).
func (t *Tree) MaxDepth() int {
	max := 0
	t.Walk(func(_ *TreeNode, depth int, _ *TreeNode) bool {
		if depth+1 > max {
			max = depth + 1
		}
		return true
	})
	return max
}

// Find returns the node with the given serNo, or nil.
func (t *Tree) Find(serNo int) *TreeNode {
	var found *TreeNode
	t.Walk(func(n *TreeNode, _ int, _ *TreeNode) bool {
		if found != nil {
			return false
		}
		if n.SerNo() == serNo {
			found = n
			return false
		}
		return true
	})
	return found
}

// Stats summarizes a tree.
type Stats struct {
	Nodes       int                   `json:"nodes"`
	ByGender    map[family.Gender]int `json:"byGender"`
	Generations int                   `json:"generations"`
}

// Stats counts nodes by a full pre-order traversal.
func (t *Tree) Stats() Stats {
	s := Stats{ByGender: map[family.Gender]int{}}
	t.Walk(func(n *TreeNode, depth int, _ *TreeNode) bool {
		s.Nodes++
		s.ByGender[family.ParseGender(string(n.Attributes.Gender))]++
		if depth+1 > s.Generations {
			s.Generations = depth + 1
		}
		return true
	})
	return s
}
