package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/metasift/internal/config"
)

// rootOptions is shared by every subcommand
type rootOptions struct {
	cfgFile string
	verbose bool
	v       *viper.Viper
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "metasift",
		Short: "Curate and sift bibliographic metadata exports for manual review",
		Long: `Metasift reads a metadata export (CSV), splits front-matter titles into
prefix, main title and subtitle, and flags rows a cataloger should check by hand:
titles that mention a volume, copyright pages that mention an edition, and
front-matter titles that disagree with the MARC 245 field.

Settings come from metasift.yaml, METASIFT_* environment variables (a .env file
is loaded if present) and command line flags, in increasing priority.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			v, err := config.New(opts.cfgFile)
			if err != nil {
				return err
			}
			opts.v = v

			setupLogging(v.GetString("log.level"), opts.verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: ./metasift.yaml or ~/.config/metasift/metasift.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newSiftCmd(opts))
	cmd.AddCommand(newMergeCmd(opts))
	cmd.AddCommand(newSummaryCmd())

	return cmd
}

func setupLogging(level string, verbose bool) {
	cfg := config.Config{Log: config.Log{Level: level}}
	lvl := cfg.SlogLevel()
	if verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
