package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metasift/internal/merge"
)

func newMergeCmd(opts *rootOptions) *cobra.Command {
	var curatedPath, flagsPath, outPath, parquetPath string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Join a curated records file and a review flags file on uri",
		Example: `  metasift merge --curated curated_metadata.csv --flags sifting_responses.csv --output FINAL_output_metadata.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.bind(cmd, map[string]string{"merge.strict": "strict"})
			if err != nil {
				return err
			}

			result, err := merge.Files(curatedPath, flagsPath, outPath, merge.Options{Strict: cfg.Merge.Strict})
			if err != nil {
				return err
			}

			if parquetPath != "" {
				if err := merge.ExportParquet(parquetPath, result); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Merged %d rows into %s\n", len(result.Rows), outPath)
			if n := len(result.UnmatchedLeft) + len(result.UnmatchedRight); n > 0 {
				fmt.Fprintf(out, "Dropped %d unmatched identifiers\n", n)
				for _, id := range result.UnmatchedLeft {
					fmt.Fprintf(out, "  only in %s: %s\n", curatedPath, id)
				}
				for _, id := range result.UnmatchedRight {
					fmt.Fprintf(out, "  only in %s: %s\n", flagsPath, id)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&curatedPath, "curated", "curated_metadata.csv", "Curated records CSV")
	cmd.Flags().StringVar(&flagsPath, "flags", "sifting_responses.csv", "Review flags CSV")
	cmd.Flags().StringVarP(&outPath, "output", "o", "FINAL_output_metadata.csv", "Merged output CSV")
	cmd.Flags().StringVar(&parquetPath, "parquet", "", "Also export the merged report to this Parquet file")
	cmd.Flags().Bool("strict", false, "Fail when a uri appears in only one file")

	return cmd
}
