package verdict

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adamwrona/verdict/internal/merge"
)

var (
	mergeGlob string
	mergeOut  string
)

var mergeCmd = &cobra.Command{
	Use:   "merge [dir]",
	Short: "Merge report fragments into one master report",
	Long: `Merge renames ambiguous fragment files to spec-derived names,
discovers all fragments in the report directory, and combines their
statistics and suite trees into a single report.

Examples:
  verdict merge
  verdict merge cypress/reports --out cypress/reports/merged_results.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeGlob, "glob", "", "Fragment filename glob (default from config)")
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "", "Output path for the merged report (default from config)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.ReportDir
	if len(args) == 1 {
		dir = args[0]
	}
	glob := cfg.FragmentGlob
	if mergeGlob != "" {
		glob = mergeGlob
	}
	out := cfg.MergedReport
	if mergeOut != "" {
		out = mergeOut
	}

	fmt.Fprintf(os.Stderr, "Merging fragments in %s...\n", dir)
	report, err := merge.MergeDir(dir, glob)
	if err != nil {
		return err
	}
	if err := report.Save(out); err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	_, _ = bold.Fprintf(os.Stderr, "Merged report written to %s\n", out)
	_, _ = dim.Fprintf(os.Stderr, "  tests: %d  passes: %d  failures: %d  pending: %d  passPercent: %.1f\n",
		report.Stats.Tests, report.Stats.Passes, report.Stats.Failures,
		report.Stats.Pending, report.Stats.PassPercent)
	return nil
}
