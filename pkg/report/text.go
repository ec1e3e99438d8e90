package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/heritage/pkg/family"
	"github.com/matzehuels/heritage/pkg/genealogy"
)

// Markers delimiting the indented dump in a text report.
const (
	OutlineStart = "--- BEGIN TREE ---"
	OutlineEnd   = "--- END TREE ---"
)

// BuildTextReport renders tree as a plain-text report.
func BuildTextReport(tree *genealogy.Tree, opts ...Option) string {
	cfg := newConfig(opts)
	var b strings.Builder

	b.WriteString(cfg.title + "\n")
	b.WriteString(strings.Repeat("=", len(cfg.title)) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", cfg.now().UTC().Format(time.RFC3339))
	if tree != nil && tree.Root != nil {
		fmt.Fprintf(&b, "Root: %s (#%d)\n", tree.Root.Name, tree.Root.SerNo())
	}
	b.WriteString("\n")

	st := tree.Stats()
	b.WriteString("Statistics\n----------\n")
	fmt.Fprintf(&b, "Total members: %d\n", st.Nodes)
	for _, g := range []family.Gender{family.GenderMale, family.GenderFemale, family.GenderUnknown} {
		fmt.Fprintf(&b, "%s: %d\n", g, st.ByGender[g])
	}
	fmt.Fprintf(&b, "Generations: %d\n", st.Generations)
	if tree != nil && len(tree.Warnings) > 0 {
		fmt.Fprintf(&b, "Warnings: %d\n", len(tree.Warnings))
	}
	b.WriteString("\n")

	b.WriteString(OutlineStart + "\n")
	tree.Walk(func(n *genealogy.TreeNode, depth int, _ *genealogy.TreeNode) bool {
		b.WriteString(OutlineLine(n, depth))
		b.WriteByte('\n')
		return true
	})
	b.WriteString(OutlineEnd + "\n")

	if tree != nil && len(tree.Warnings) > 0 {
		b.WriteString("\nWarnings\n--------\n")
		for _, w := range tree.Warnings {
			b.WriteString("- " + w.String() + "\n")
		}
	}
	return b.String()
}

// OutlineLine formats one dump line. Unknown gender is left out. Fields are
// flattened to a single line without leading spaces so the indent alone
// carries the depth.
func OutlineLine(n *genealogy.TreeNode, depth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(flatten(n.Name))
	b.WriteString(" (#" + strconv.Itoa(n.SerNo()) + ")")
	a := n.Attributes
	if g := family.ParseGender(string(a.Gender)); g.IsKnown() {
		b.WriteString(" - " + string(g))
	}
	if v := flatten(a.Vansh); v != "" {
		b.WriteString(" [" + v + "]")
	}
	if s := flatten(a.SpouseName); s != "" {
		b.WriteString(" (Spouse: " + s + ")")
	}
	return b.String()
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func flatten(s string) string {
	return strings.TrimLeft(lineBreaks.Replace(s), " ")
}
