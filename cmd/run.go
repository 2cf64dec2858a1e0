package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metasift/internal/config"
	"github.com/lehigh-university-libraries/metasift/internal/pipeline"
)

// bind maps config keys onto the flags of cmd and decodes the result.
func (o *rootOptions) bind(cmd *cobra.Command, keys map[string]string) (*config.Config, error) {
	for key, flag := range keys {
		if err := o.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return config.Load(o.v)
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full curation pipeline on a metadata export",
		Long: `Loads the export, curates titles, runs the volume, edition and title
discrepancy checks, writes the curated records and review flags CSV files and
merges them on uri into the final report.`,
		Example: `  # Process an export into the current directory
  metasift run --input 2020-09-23_breakout_title.csv

  # Write into ./reports, also export Parquet and a YAML run summary
  metasift run -i export.csv -o reports --parquet final.parquet --summary summary.yaml

  # Fail instead of dropping rows whose uri is missing from one report
  metasift run -i export.csv --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.bind(cmd, map[string]string{
				"input":                              "input",
				"output.dir":                         "output-dir",
				"output.curated":                     "curated",
				"output.flags":                       "flags",
				"output.final":                       "final",
				"output.parquet":                     "parquet",
				"output.summary":                     "summary",
				"loader.empty_cells_as_missing":      "empty-as-missing",
				"sifting.edition_abbreviation_check": "edition-abbreviation-check",
				"merge.strict":                       "strict",
			})
			if err != nil {
				return err
			}

			summary, err := pipeline.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Metadata export to process (CSV or TSV)")
	cmd.Flags().StringP("output-dir", "o", ".", "Directory for the output files")
	cmd.Flags().String("curated", "curated_metadata.csv", "Curated records file name")
	cmd.Flags().String("flags", "sifting_responses.csv", "Review flags file name")
	cmd.Flags().String("final", "FINAL_output_metadata.csv", "Merged report file name")
	cmd.Flags().String("parquet", "", "Also export the merged report to this Parquet file")
	cmd.Flags().String("summary", "", "Save a YAML run summary to this file")
	cmd.Flags().Bool("empty-as-missing", false, "Treat empty cells as missing values (\"nan\")")
	cmd.Flags().Bool("edition-abbreviation-check", false, "Match \" ed.\" against copyright text with spaces kept")
	cmd.Flags().Bool("strict", false, "Fail when a uri appears in only one report")

	return cmd
}
