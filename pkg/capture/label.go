package capture

import (
	"fmt"

	"github.com/matzehuels/heritage/pkg/family"
	"github.com/matzehuels/heritage/pkg/genealogy"
)

// Label is the one-line caption drawn for a node.
func Label(n *genealogy.TreeNode) string {
	s := fmt.Sprintf("%s (#%d)", n.Name, n.SerNo())
	if n.Attributes.SpouseName != "" {
		s += " + " + n.Attributes.SpouseName
	}
	return s
}

// Fill returns the card color for a gender.
func Fill(g family.Gender) string {
	switch g {
	case family.GenderMale:
		return "#dbeafe"
	case family.GenderFemale:
		return "#fce7f3"
	default:
		return "#f3f4f6"
	}
}
