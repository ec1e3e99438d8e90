package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/pipeline"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	records  string
	roots    []int
	output   string
	formats  string
	adapter  string
	title    string
	author   string
	maxPages int
	marginMm float64
	publish  bool
	noCache  bool
	refresh  bool
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the descendant tree of one or more members as paginated documents",
		Long: `Export builds the descendant tree of each --root member, expands it fully,
captures it with the selected adapter and slices the image onto A4 or A3
pages. Outputs are written next to --output (or tree-<root>.<format>).`,
		Example: `  heritage export --records family.json --root 1
  heritage export --records sqlite://family.db --root 1 --root 7 --format pdf,json
  heritage export --root 1 --adapter nodelink --publish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.roots) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "at least one --root is required")
			}
			po := c.Config.ExportOptions(0)
			po.Formats = parseFormats(opts.formats)
			po.Title = opts.title
			po.Author = opts.author
			po.Refresh = opts.refresh
			if cmd.Flags().Changed("adapter") {
				po.Adapter = opts.adapter
			}
			if cmd.Flags().Changed("max-pages") {
				po.Policy.MaxPages = opts.maxPages
			}
			if cmd.Flags().Changed("margin") {
				po.Policy.MarginMm = opts.marginMm
			}
			return c.runExport(cmd.Context(), opts, po)
		},
	}

	cmd.Flags().StringVarP(&opts.records, "records", "r", "", "record source: file path, sqlite://, postgres:// or mongodb:// URI")
	cmd.Flags().IntSliceVar(&opts.roots, "root", nil, "serial number of the tree root (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single root and format) or base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): pdf (default), png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.adapter, "adapter", "", "capture adapter: outline, nodelink, browser")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	cmd.Flags().StringVar(&opts.author, "author", "", "document author")
	cmd.Flags().IntVar(&opts.maxPages, "max-pages", 0, "page ceiling")
	cmd.Flags().Float64Var(&opts.marginMm, "margin", 0, "page margin in millimetres")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "upload outputs to the configured artifact store")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached captures and documents")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, opts exportOpts, po pipeline.Options) error {
	records, err := c.loadRecords(ctx, opts.records)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache, opts.publish)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Exporting %d tree(s)...", len(opts.roots)))
	spinner.Start()
	var results []*pipeline.Result
	if len(opts.roots) == 1 {
		po.Root = opts.roots[0]
		var res *pipeline.Result
		res, err = runner.Export(ctx, records, po)
		results = []*pipeline.Result{res}
	} else {
		results, err = runner.ExportBatch(ctx, records, opts.roots, po)
	}
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	if opts.publish {
		printInfo("Publishing to %s store", runner.Store.Driver())
	}

	multi := len(opts.roots) > 1
	var files outputFiles
	for i, res := range results {
		for _, format := range po.Formats {
			path := outputPath(opts.output, opts.roots[i], format, multi, len(po.Formats) > 1)
			if err := files.add(path, res.Artifacts[format]); err != nil {
				files.discard()
				return err
			}
		}
	}
	if err := files.commit(); err != nil {
		return err
	}

	for i, res := range results {
		root := opts.roots[i]
		printSuccess("Exported tree of %s #%d", res.Tree.Root.Name, root)
		printExportStats(res.Stats.NodeCount, res.Stats.PageCount,
			fmt.Sprintf("%s %s", res.Layout.Format.Name, res.Layout.Orientation),
			res.CacheInfo.RasterHit)
		for _, w := range res.Tree.Warnings {
			printWarning("%s", w.String())
		}

		for _, format := range po.Formats {
			printFile(outputPath(opts.output, root, format, multi, len(po.Formats) > 1))
		}

		if opts.publish {
			published, err := runner.Publish(ctx, res)
			if err != nil {
				return err
			}
			for _, format := range po.Formats {
				printKeyValue("published", published[format].Key)
			}
		}
	}
	if !multi {
		printNextStep("Text report", fmt.Sprintf("%s report --root %d", appName, opts.roots[0]))
	}
	return nil
}

// outputPath returns where one artifact is written. A lone artifact goes
// to output verbatim. Otherwise output's extension is replaced by format
// and, for several roots, the root id is appended. Without output the
// name is tree-<root>.<format>.
func outputPath(output string, root int, format string, multiRoot, multiFormat bool) string {
	if output != "" && !multiRoot && !multiFormat {
		return output
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	if output == "" {
		base, multiRoot = "tree", true
	}
	if multiRoot {
		base = fmt.Sprintf("%s-%d", base, root)
	}
	return base + "." + format
}
