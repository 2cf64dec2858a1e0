package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metasift/internal/metadata"
	"github.com/lehigh-university-libraries/metasift/internal/sifting"
)

func newSiftCmd(opts *rootOptions) *cobra.Command {
	var onlyFlagged bool

	cmd := &cobra.Command{
		Use:   "sift",
		Short: "Print the review flags for an export without writing any files",
		Example: `  # Show every row
  metasift sift --input export.csv

  # Show only rows that need a manual check
  metasift sift --input export.csv --only-flagged`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.bind(cmd, map[string]string{
				"input":                              "input",
				"loader.empty_cells_as_missing":      "empty-as-missing",
				"sifting.edition_abbreviation_check": "edition-abbreviation-check",
			})
			if err != nil {
				return err
			}
			if cfg.Input == "" {
				return fmt.Errorf("--input is required")
			}

			records, err := metadata.NewLoader(cfg.Input, metadata.LoaderOptions{
				EmptyAsMissing: cfg.Loader.EmptyCellsAsMissing,
			}).Load()
			if err != nil {
				return err
			}

			flags, err := sifting.Sift(records, sifting.Options{
				EditionAbbreviationCheck: cfg.Sifting.EditionAbbreviationCheck,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderFlags(records, flags, onlyFlagged))
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Metadata export to sift (CSV or TSV)")
	cmd.Flags().Bool("empty-as-missing", false, "Treat empty cells as missing values (\"nan\")")
	cmd.Flags().Bool("edition-abbreviation-check", false, "Match \" ed.\" against copyright text with spaces kept")
	cmd.Flags().BoolVar(&onlyFlagged, "only-flagged", false, "Only show rows with at least one flag set")

	return cmd
}
