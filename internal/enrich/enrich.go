// Package enrich runs the enrichment pipeline: per report file it extracts
// failing-test candidates, invokes the ranked model list, and persists the
// annotated report back in place.
package enrich

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/adamwrona/verdict/internal/extract"
	"github.com/adamwrona/verdict/pkg/models"
)

// PersistError indicates the annotated report could not be written back.
// It is surfaced as a warning; the run continues with the next file.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist report %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// FileResult summarizes the outcome for one report file.
type FileResult struct {
	Path       string
	Candidates int
	Enriched   int
	Fallbacks  int
	Err        error
}

// Enricher orchestrates enrichment across report files. It is a single
// sequential worker: candidates and files are processed one at a time to
// respect the inference provider's rate limits.
type Enricher struct {
	inv     *Invoker
	emitter Emitter
	runID   string
}

// New creates an Enricher around a configured invoker.
func New(inv *Invoker, emitter Emitter) *Enricher {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &Enricher{
		inv:     inv,
		emitter: emitter,
		runID:   uuid.NewString()[:8],
	}
}

// Run enriches each report file in order. A failure on one file never
// aborts the others; per-file outcomes are collected in the results.
func (e *Enricher) Run(ctx context.Context, paths []string) []FileResult {
	e.emitter.Emit(Event{Type: "info", Message: fmt.Sprintf("enrichment run %s: %d report file(s)", e.runID, len(paths))})

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		res := e.enrichFile(ctx, path)
		if res.Err != nil {
			e.emitter.Emit(Event{Type: "warn", Message: res.Err.Error()})
		}
		results = append(results, res)
	}
	return results
}

// enrichFile runs the per-file state machine: load, extract, enrich each
// candidate, persist. A candidate whose model attempts are exhausted gets
// the deterministic fallback insight; the loop over remaining candidates
// continues regardless.
func (e *Enricher) enrichFile(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}

	report, err := models.Load(path)
	if err != nil {
		res.Err = err
		return res
	}

	candidates := extract.Candidates(report)
	res.Candidates = len(candidates)
	if len(candidates) == 0 {
		e.emitter.Emit(Event{Type: "info", Message: fmt.Sprintf("%s: no unannotated failures", path)})
		return res
	}

	for i, t := range candidates {
		e.emitter.Emit(Event{
			Type:      "step",
			Candidate: i + 1,
			Total:     len(candidates),
			Message:   fmt.Sprintf("analyzing %q", t.Title),
		})

		ins, err := e.inv.Invoke(ctx, t)
		if err != nil {
			e.emitter.Emit(Event{Type: "warn", Message: fmt.Sprintf("%s: %v, substituting fallback insight", t.Title, err)})
			ins = Fallback(t)
			res.Fallbacks++
		} else {
			res.Enriched++
		}
		t.AI = ins
	}

	if err := report.Save(path); err != nil {
		res.Err = &PersistError{Path: path, Err: err}
	}
	return res
}
