package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metasift/internal/pipeline"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "summary FILE",
		Short:   "Show a saved YAML run summary",
		Example: `  metasift summary reports/summary.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := pipeline.LoadSummary(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}
