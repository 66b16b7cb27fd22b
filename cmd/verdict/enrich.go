package verdict

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adamwrona/verdict/internal/config"
	"github.com/adamwrona/verdict/internal/enrich"
	"github.com/adamwrona/verdict/internal/llm"
	"github.com/adamwrona/verdict/internal/merge"
)

var enrichJSON bool

var enrichCmd = &cobra.Command{
	Use:   "enrich [files...]",
	Short: "Annotate failing tests with AI-generated insight",
	Long: `Enrich loads each report file, selects failing tests without an
existing insight, invokes the configured model list per candidate, and
writes the annotated report back in place. Already-annotated tests are
skipped, so re-running is a no-op.

With no arguments the merged report (or the discovered fragments) in the
configured report directory are enriched.

Examples:
  verdict enrich
  verdict enrich cypress/reports/merged_results.json --json`,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichJSON, "json", false, "Output per-file results as JSON")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths, err = defaultReportPaths(cfg)
		if err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no report files found in %s", cfg.ReportDir)
	}

	var emitter enrich.Emitter = enrich.NewStderrEmitter()
	if verbose {
		emitter = &enrich.TextEmitter{W: os.Stderr}
	}
	defer emitter.Close()

	clients := buildClients(cfg, emitter)
	inv := enrich.NewInvoker(clients, enrich.InvokerOptions{
		Timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
		Cooldown: time.Duration(cfg.CooldownSec) * time.Second,
		Retries:  cfg.Retries,
		Emitter:  emitter,
	})

	results := enrich.New(inv, emitter).Run(context.Background(), paths)
	emitter.Close()

	if enrichJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	printResults(results)
	return nil
}

// buildClients constructs a client per configured model reference. A
// missing credential fails that client's construction with a descriptive
// error; the reference is skipped with a warning and never called.
func buildClients(cfg *config.Config, emitter enrich.Emitter) []llm.Client {
	opts := llm.Options{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}
	var clients []llm.Client
	for _, ref := range cfg.Models {
		client, err := llm.ForModel(ref, opts)
		if err != nil {
			emitter.Emit(enrich.Event{Type: "warn", Message: fmt.Sprintf("skipping %s: %v", ref, err)})
			continue
		}
		clients = append(clients, client)
	}
	if len(clients) == 0 {
		emitter.Emit(enrich.Event{Type: "warn", Message: "no usable models, failures will receive fallback insights"})
	}
	return clients
}

// defaultReportPaths prefers the merged report when it exists, otherwise
// the discovered fragments.
func defaultReportPaths(cfg *config.Config) ([]string, error) {
	if _, err := os.Stat(cfg.MergedReport); err == nil {
		return []string{cfg.MergedReport}, nil
	}
	return merge.Discover(cfg.ReportDir, cfg.FragmentGlob)
}

func printResults(results []enrich.FileResult) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	red := color.New(color.FgRed)

	for _, r := range results {
		_, _ = bold.Fprintln(os.Stdout, r.Path)
		_, _ = dim.Fprintf(os.Stdout, "  candidates: %d  enriched: %d  fallbacks: %d\n",
			r.Candidates, r.Enriched, r.Fallbacks)
		if r.Err != nil {
			_, _ = red.Fprintf(os.Stdout, "  error: %v\n", r.Err)
		}
	}
}
