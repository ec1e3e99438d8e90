package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/io"
)

// convertCommand snapshots any record source into a JSON or YAML file.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		records string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write a record source to a JSON or YAML file",
		Example: `  heritage convert --records sqlite:///data/family.db -o family.json
  heritage convert --records family.json -o family.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--output is required")
			}
			if _, err := io.FormatFromPath(output); err != nil {
				return err
			}
			rs, err := c.loadRecords(cmd.Context(), records)
			if err != nil {
				return err
			}
			if err := io.ExportRecords(rs, output); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			printSuccess("Converted %d members", rs.Len())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&records, "records", "r", "", "record source: file path or database URI")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json, .yaml or .yml)")
	return cmd
}
