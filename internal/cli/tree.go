package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/genealogy"
	"github.com/matzehuels/heritage/pkg/render/view"
	"github.com/matzehuels/heritage/pkg/report"
)

// Row markers in projections.
const (
	markExpanded  = "▾ "
	markCollapsed = "▸ "
	markLeaf      = "  "
)

// rowLine renders one projection row as indentation, a fold marker and the
// member's outline line.
func rowLine(r view.Row) string {
	mark := markLeaf
	if r.HasChildren {
		mark = markCollapsed
		if r.Expanded {
			mark = markExpanded
		}
	}
	return strings.Repeat("  ", r.Depth) + mark + report.OutlineLine(r.Node, 0)
}

func (c *CLI) treeCommand() *cobra.Command {
	var (
		records  string
		root     int
		collapse string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the projection of a descendant tree",
		Example: `  heritage tree --records family.json --root 1
  heritage tree --root 1 --collapse 2,5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateSerNo(root); err != nil {
				return err
			}
			collapsed, err := parseIDs(collapse)
			if err != nil {
				return err
			}
			rs, err := c.loadRecords(ctx, records)
			if err != nil {
				return err
			}
			tree, err := genealogy.New(rs, genealogy.WithLogger(c.Logger)).BuildTree(root)
			if err != nil {
				return err
			}

			model := view.NewModel()
			for _, id := range collapsed {
				model.SetExpanded(id, false)
			}
			for _, r := range model.Project(tree) {
				fmt.Fprintln(c.out, rowLine(r))
			}
			for _, w := range tree.Warnings {
				c.Logger.Warn(w.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&records, "records", "r", "", "record source: file path or database URI")
	cmd.Flags().IntVar(&root, "root", 0, "serial number of the tree root")
	cmd.Flags().StringVar(&collapse, "collapse", "", "member ids whose subtrees are hidden (comma-separated)")
	cmd.MarkFlagRequired("root")

	return cmd
}

func (c *CLI) rootsCommand() *cobra.Command {
	var records string

	cmd := &cobra.Command{
		Use:   "roots",
		Short: "List members that start a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := c.loadRecords(cmd.Context(), records)
			if err != nil {
				return err
			}
			g := genealogy.New(rs, genealogy.WithLogger(c.Logger))
			for _, m := range g.Roots() {
				fmt.Fprintf(c.out, "%d\t%s\t%d descendants\n", m.SerNo, m.Name, g.Reachable(m.SerNo)-1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&records, "records", "r", "", "record source: file path or database URI")
	return cmd
}

func (c *CLI) validateCommand() *cobra.Command {
	var (
		records string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check records for dangling and inconsistent references",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := c.loadRecords(cmd.Context(), records)
			if err != nil {
				return err
			}
			findings := rs.Validate()
			if len(findings) == 0 {
				printSuccess("%d members, no findings", rs.Len())
				return nil
			}
			for _, f := range findings {
				fmt.Fprintln(c.out, f.String())
			}
			printWarning("%d findings in %d members", len(findings), rs.Len())
			if strict {
				return errors.New(errors.ErrCodeInvalidInput, "%d findings", len(findings))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&records, "records", "r", "", "record source: file path or database URI")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when findings exist")
	return cmd
}
