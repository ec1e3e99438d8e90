package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/report"
)

func (c *CLI) reportCommand() *cobra.Command {
	var (
		records string
		root    int
		docx    string
		title   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the text report of a descendant tree",
		Example: `  heritage report --records family.json --root 1
  heritage report --root 1 --docx family.docx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateSerNo(root); err != nil {
				return err
			}
			rs, err := c.loadRecords(ctx, records)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			var opts []report.Option
			if title != "" {
				opts = append(opts, report.WithTitle(title))
			}

			if docx != "" {
				data, err := runner.ReportDOCX(ctx, rs, root, opts...)
				if err != nil {
					return err
				}
				if err := writeFile(docx, data); err != nil {
					return err
				}
				printSuccess("Wrote Word report for #%d", root)
				printFile(docx)
				return nil
			}

			text, tree, err := runner.Report(ctx, rs, root, opts...)
			if err != nil {
				return err
			}
			fmt.Fprint(c.out, text)
			for _, w := range tree.Warnings {
				c.Logger.Warn(w.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&records, "records", "r", "", "record source: file path or database URI")
	cmd.Flags().IntVar(&root, "root", 0, "serial number of the tree root")
	cmd.Flags().StringVar(&docx, "docx", "", "write a Word document instead of printing text")
	cmd.Flags().StringVar(&title, "title", "", "report title")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagRequired("root")

	return cmd
}

func (c *CLI) profileCommand() *cobra.Command {
	var (
		records string
		member  int
		html    bool
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the profile of one member",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateSerNo(member); err != nil {
				return err
			}
			rs, err := c.loadRecords(ctx, records)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, true, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			data, err := runner.Profile(rs, member, html)
			if err != nil {
				return err
			}
			_, err = c.out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&records, "records", "r", "", "record source: file path or database URI")
	cmd.Flags().IntVarP(&member, "member", "m", 0, "serial number of the member")
	cmd.Flags().BoolVar(&html, "html", false, "emit an HTML page")
	cmd.MarkFlagRequired("member")

	return cmd
}
