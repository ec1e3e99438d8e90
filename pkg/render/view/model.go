package view

import (
	"maps"

	"github.com/matzehuels/heritage/pkg/genealogy"
)

// ExpandState maps serNo to whether that node's children are shown.
// Missing entries count as expanded.
type ExpandState map[int]bool

// IsExpanded reports the flag for serNo, defaulting to true.
func (s ExpandState) IsExpanded(serNo int) bool {
	v, ok := s[serNo]
	return !ok || v
}

// Clone returns an independent copy.
func (s ExpandState) Clone() ExpandState {
	if s == nil {
		return ExpandState{}
	}
	return maps.Clone(s)
}

// Model is the expand/collapse state of one tree view.
// A Model is not safe for concurrent mutation; give each goroutine its own
// via [Model.Snapshot] or [Model.ForExport].
type Model struct {
	state ExpandState
}

// NewModel returns a model in which every node is expanded.
func NewModel() *Model {
	return &Model{state: ExpandState{}}
}

// FromState returns a model that owns a copy of s.
func FromState(s ExpandState) *Model {
	return &Model{state: s.Clone()}
}

// IsExpanded reports whether serNo's children are shown.
func (m *Model) IsExpanded(serNo int) bool { return m.state.IsExpanded(serNo) }

// SetExpanded sets serNo's flag.
func (m *Model) SetExpanded(serNo int, expanded bool) { m.state[serNo] = expanded }

// Toggle flips serNo's flag and returns the new value.
func (m *Model) Toggle(serNo int) bool {
	v := !m.state.IsExpanded(serNo)
	m.state[serNo] = v
	return v
}

// ExpandAll sets every node of tree to expanded.
func (m *Model) ExpandAll(tree *genealogy.Tree) {
	m.setAll(tree, true)
}

// CollapseAll sets every node of tree to collapsed.
func (m *Model) CollapseAll(tree *genealogy.Tree) {
	m.setAll(tree, false)
}

func (m *Model) setAll(tree *genealogy.Tree, v bool) {
	tree.Walk(func(n *genealogy.TreeNode, _ int, _ *genealogy.TreeNode) bool {
		m.state[n.SerNo()] = v
		return true
	})
}

// Snapshot returns a copy of the current state.
func (m *Model) Snapshot() ExpandState { return m.state.Clone() }

// ForExport returns a new model with every node of tree expanded.
// The receiver is not modified.
func (m *Model) ForExport(tree *genealogy.Tree) *Model {
	out := FromState(m.state)
	out.ExpandAll(tree)
	return out
}

// Project projects tree using the model's current state.
func (m *Model) Project(tree *genealogy.Tree) []Row {
	return Project(tree, m.state)
}

// VisibleCount returns the number of rows a projection would contain.
func (m *Model) VisibleCount(tree *genealogy.Tree) int {
	return len(Project(tree, m.state))
}
