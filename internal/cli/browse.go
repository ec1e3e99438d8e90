package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/genealogy"
	"github.com/matzehuels/heritage/pkg/pipeline"
	"github.com/matzehuels/heritage/pkg/render/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeBrowser - interactive expand/collapse
// =============================================================================

// exportFunc exports the tree under a snapshot of model.
type exportFunc func(model *view.Model) (path string, pages int, err error)

type exportDoneMsg struct {
	path  string
	pages int
	err   error
}

// TreeBrowser is the bubbletea model for browsing a tree.
type TreeBrowser struct {
	tree   *genealogy.Tree
	model  *view.Model
	rows   []view.Row
	export exportFunc

	Cursor int
	Offset int
	Height int
	Status string
}

// NewTreeBrowser creates a browser with every node expanded.
func NewTreeBrowser(tree *genealogy.Tree, export exportFunc) *TreeBrowser {
	b := &TreeBrowser{tree: tree, model: view.NewModel(), export: export, Height: 20}
	b.refresh()
	return b
}

func (b *TreeBrowser) refresh() {
	b.rows = b.model.Project(b.tree)
	if b.Cursor >= len(b.rows) {
		b.Cursor = len(b.rows) - 1
	}
	if b.Cursor < 0 {
		b.Cursor = 0
	}
	b.scroll()
}

func (b *TreeBrowser) scroll() {
	if b.Cursor < b.Offset {
		b.Offset = b.Cursor
	}
	if b.Cursor >= b.Offset+b.Height {
		b.Offset = b.Cursor - b.Height + 1
	}
}

func (b *TreeBrowser) current() (view.Row, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.rows) {
		return view.Row{}, false
	}
	return b.rows[b.Cursor], true
}

// parentIndex returns the row index of the current row's parent.
func (b *TreeBrowser) parentIndex() int {
	r, ok := b.current()
	if !ok || r.ParentSerNo == 0 {
		return -1
	}
	for i := b.Cursor - 1; i >= 0; i-- {
		if b.rows[i].SerNo() == r.ParentSerNo {
			return i
		}
	}
	return -1
}

func (b *TreeBrowser) Init() tea.Cmd {
	return nil
}

func (b *TreeBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "k":
			if b.Cursor > 0 {
				b.Cursor--
				b.scroll()
			}
		case "down", "j":
			if b.Cursor < len(b.rows)-1 {
				b.Cursor++
				b.scroll()
			}
		case "enter", " ":
			if r, ok := b.current(); ok && r.HasChildren {
				b.model.Toggle(r.SerNo())
				b.refresh()
			}
		case "right", "l":
			if r, ok := b.current(); ok && r.HasChildren && !r.Expanded {
				b.model.SetExpanded(r.SerNo(), true)
				b.refresh()
			}
		case "left", "h":
			if r, ok := b.current(); ok && r.HasChildren && r.Expanded {
				b.model.SetExpanded(r.SerNo(), false)
				b.refresh()
			} else if p := b.parentIndex(); p >= 0 {
				b.Cursor = p
				b.scroll()
			}
		case "E":
			b.model.ExpandAll(b.tree)
			b.refresh()
		case "C":
			b.model.CollapseAll(b.tree)
			b.refresh()
		case "e":
			if b.export == nil {
				return b, nil
			}
			b.Status = "exporting..."
			snapshot := view.FromState(b.model.Snapshot())
			export := b.export
			return b, func() tea.Msg {
				path, pages, err := export(snapshot)
				return exportDoneMsg{path: path, pages: pages, err: err}
			}
		}
	case exportDoneMsg:
		if msg.err != nil {
			b.Status = iconError + " " + errors.UserMessage(msg.err)
		} else {
			b.Status = fmt.Sprintf("%s %s (%d pages)", iconSuccess, msg.path, msg.pages)
		}
	case tea.WindowSizeMsg:
		b.Height = msg.Height - 6
		if b.Height < 5 {
			b.Height = 5
		}
		b.scroll()
	}
	return b, nil
}

func (b *TreeBrowser) View() string {
	var s strings.Builder

	s.WriteString(StyleTitle.Render(fmt.Sprintf("%s #%d", b.tree.Root.Name, b.tree.Root.SerNo())))
	s.WriteString("\n")
	s.WriteString(listDimStyle.Render("↑/↓ move  ⏎ toggle  ←/→ fold  E/C all  e export  q quit"))
	s.WriteString("\n\n")

	end := b.Offset + b.Height
	if end > len(b.rows) {
		end = len(b.rows)
	}
	for i := b.Offset; i < end; i++ {
		line := rowLine(b.rows[i])
		switch {
		case i == b.Cursor:
			s.WriteString(listSelectedStyle.Render(line))
		case !b.rows[i].Node.Attributes.Gender.IsKnown():
			s.WriteString(listDimStyle.Render(line))
		default:
			s.WriteString(listNormalStyle.Render(line))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d visible of %d]", b.Cursor+1, len(b.rows), b.tree.NodeCount())))
	if b.Status != "" {
		s.WriteString("\n  " + b.Status)
	}
	return s.String()
}

// =============================================================================
// Command
// =============================================================================

func (c *CLI) browseCommand() *cobra.Command {
	var (
		records string
		root    int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a tree interactively and export what is on screen",
		Long: `Browse opens a terminal view of the tree. Subtrees can be folded and
unfolded; pressing e exports the whole tree to --output. Exports always
include every member regardless of what is folded on screen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateSerNo(root); err != nil {
				return err
			}
			rs, err := c.loadRecords(ctx, records)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, false, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			tree, err := runner.Build(ctx, rs, root)
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("tree-%d.pdf", root)
			}

			export := func(model *view.Model) (string, int, error) {
				opts := c.Config.ExportOptions(root)
				opts.Model = model
				res, err := runner.Export(ctx, rs, opts)
				if err != nil {
					return "", 0, err
				}
				if err := writeFile(output, res.Artifacts[pipeline.FormatPDF]); err != nil {
					return "", 0, err
				}
				return output, res.Stats.PageCount, nil
			}

			p := tea.NewProgram(NewTreeBrowser(tree, export), tea.WithContext(ctx), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&records, "records", "r", "", "record source: file path or database URI")
	cmd.Flags().IntVar(&root, "root", 0, "serial number of the tree root")
	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF written by the export key")
	cmd.MarkFlagRequired("root")

	return cmd
}
