// Package verdict implements the CLI commands.
package verdict

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamwrona/verdict/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Merge sharded UI-test reports and enrich failures with AI insight",
	Long: `Verdict post-processes UI-test result artifacts: it merges sharded
per-spec report files into one report and annotates failing tests with
structured diagnostic insight from an inference provider.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: verdict.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every progress event as a plain line")
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
