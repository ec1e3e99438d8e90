package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/heritage/pkg/family"
	"github.com/matzehuels/heritage/pkg/genealogy"
	"github.com/matzehuels/heritage/pkg/render/view"
)

func testTree(t *testing.T) *genealogy.Tree {
	t.Helper()
	rs, err := family.NewRecordSet([]family.Member{
		{SerNo: 1, Name: "Ram", Gender: family.GenderMale, ChildrenSerNos: []int{2, 3}},
		{SerNo: 2, Name: "Lav", Gender: family.GenderMale, FatherSerNo: family.Ref(1), ChildrenSerNos: []int{5}},
		{SerNo: 3, Name: "Kush", Gender: family.GenderMale, FatherSerNo: family.Ref(1)},
		{SerNo: 5, Name: "Atithi", FatherSerNo: family.Ref(2)},
	})
	if err != nil {
		t.Fatal(err)
	}
	tree, err := genealogy.New(rs).BuildTree(1)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func visible(b *TreeBrowser) []int {
	var ids []int
	for _, r := range b.rows {
		ids = append(ids, r.SerNo())
	}
	return ids
}

func TestTreeBrowserFolding(t *testing.T) {
	b := NewTreeBrowser(testTree(t), nil)
	if got := visible(b); len(got) != 4 {
		t.Fatalf("initial rows = %v, want 4", got)
	}

	b.Update(key("j")) // Lav
	b.Update(key("enter"))
	if got := visible(b); len(got) != 3 {
		t.Errorf("after collapsing Lav rows = %v, want [1 2 3]", got)
	}

	b.Update(key("enter"))
	if got := visible(b); len(got) != 4 {
		t.Errorf("after expanding Lav rows = %v, want 4", got)
	}

	b.Update(key("j")) // Atithi
	b.Update(key("left"))
	if b.Cursor != 1 {
		t.Errorf("left on leaf moved cursor to %d, want parent row 1", b.Cursor)
	}

	b.Update(key("C"))
	if got := visible(b); len(got) != 1 {
		t.Errorf("collapse all rows = %v, want [1]", got)
	}
	if b.Cursor != 0 {
		t.Errorf("cursor = %d after collapse all, want 0", b.Cursor)
	}

	b.Update(key("E"))
	if got := visible(b); len(got) != 4 {
		t.Errorf("expand all rows = %v, want 4", got)
	}

	if _, cmd := b.Update(key("q")); cmd == nil {
		t.Error("q returned no command")
	}
}

func TestTreeBrowserExportUsesSnapshot(t *testing.T) {
	var got *view.Model
	export := func(m *view.Model) (string, int, error) {
		got = m
		return "tree-1.pdf", 2, nil
	}
	b := NewTreeBrowser(testTree(t), export)
	b.Update(key("j"))
	b.Update(key("enter")) // collapse Lav on screen

	_, cmd := b.Update(key("e"))
	if cmd == nil {
		t.Fatal("e returned no command")
	}
	msg := cmd()
	if got == nil || got == b.model {
		t.Fatal("export did not receive a separate model")
	}
	if got.IsExpanded(2) {
		t.Error("snapshot lost the on-screen fold of #2")
	}

	b.model.SetExpanded(2, true)
	if got.IsExpanded(2) {
		t.Error("snapshot changed with the browser model")
	}

	b.Update(msg)
	if b.Status == "" || b.Status == "exporting..." {
		t.Errorf("status after export = %q", b.Status)
	}
	if v := b.View(); v == "" {
		t.Error("empty view")
	}
}
