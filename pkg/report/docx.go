package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fumiama/go-docx"

	"github.com/matzehuels/heritage/pkg/family"
	"github.com/matzehuels/heritage/pkg/genealogy"
)

// WriteDOCX writes the tree report as a Word document. Tree lines use the
// text report format, indented four spaces per level.
func WriteDOCX(w io.Writer, tree *genealogy.Tree, opts ...Option) error {
	cfg := newConfig(opts)
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(cfg.title).Size("36").Bold()
	doc.AddParagraph().AddText("Generated: " + cfg.now().UTC().Format(time.RFC3339)).Size("18").Color("6b7280")
	if tree != nil && tree.Root != nil {
		doc.AddParagraph().AddText(fmt.Sprintf("Root: %s (#%d)", tree.Root.Name, tree.Root.SerNo()))
	}

	st := tree.Stats()
	doc.AddParagraph().AddText("Statistics").Size("28").Bold()
	doc.AddParagraph().AddText(fmt.Sprintf("Total members: %d", st.Nodes))
	for _, g := range []family.Gender{family.GenderMale, family.GenderFemale, family.GenderUnknown} {
		doc.AddParagraph().AddText(fmt.Sprintf("%s: %d", g, st.ByGender[g]))
	}
	doc.AddParagraph().AddText(fmt.Sprintf("Generations: %d", st.Generations))

	doc.AddParagraph().AddText("Tree").Size("28").Bold()
	tree.Walk(func(n *genealogy.TreeNode, depth int, _ *genealogy.TreeNode) bool {
		line := OutlineLine(n, 0)
		doc.AddParagraph().AddText(strings.Repeat("    ", depth) + line)
		return true
	})

	if tree != nil && len(tree.Warnings) > 0 {
		doc.AddParagraph().AddText("Warnings").Size("28").Bold()
		for _, warn := range tree.Warnings {
			doc.AddParagraph().AddText(warn.String()).Color("b45309")
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
