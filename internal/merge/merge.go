// Package merge discovers sharded report fragments and combines them into a
// single master report.
package merge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adamwrona/verdict/pkg/models"
)

// DefaultFragmentGlob matches fragment files after renaming.
const DefaultFragmentGlob = "*_results.json"

// DefaultReportName is the well-known fallback consulted when no fragments
// are discovered in a directory.
const DefaultReportName = "mochawesome.json"

// FragmentParseError indicates a fragment file could not be read or parsed.
// It aborts the whole merge: silently dropping a fragment would corrupt the
// additive sum invariant of the merged stats.
type FragmentParseError struct {
	Path string
	Err  error
}

func (e *FragmentParseError) Error() string {
	return fmt.Sprintf("unparsable fragment %s: %v", e.Path, e.Err)
}

func (e *FragmentParseError) Unwrap() error { return e.Err }

// Discover lists fragment files in dir matching glob, in filepath.Glob's
// lexical order. Ordering of ties is not guaranteed stable across
// filesystems; callers must not depend on cross-run ordering. When nothing
// matches, the well-known default report path is returned if it exists.
func Discover(dir, glob string) ([]string, error) {
	if glob == "" {
		glob = DefaultFragmentGlob
	}
	paths, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return nil, fmt.Errorf("bad fragment glob %q: %w", glob, err)
	}
	if len(paths) > 0 {
		return paths, nil
	}
	fallback := filepath.Join(dir, DefaultReportName)
	if _, err := os.Stat(fallback); err == nil {
		return []string{fallback}, nil
	}
	return nil, nil
}

// Merge parses each fragment and combines them: every additive stats counter
// is summed, results sequences are concatenated in discovery order, and the
// percentages are recomputed from the summed counters. The last-seen
// fragment's meta is kept; there are no merge semantics for meta. A fragment
// without a stats block contributes zero to every counter (its results are
// still concatenated). Any unparsable fragment fails the whole merge with a
// FragmentParseError.
func Merge(paths []string) (*models.Report, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no fragments to merge")
	}

	merged := &models.Report{}
	for _, path := range paths {
		frag, err := parseFragment(path)
		if err != nil {
			return nil, err
		}
		addStats(&merged.Stats, frag.Stats)
		merged.Results = append(merged.Results, frag.Results...)
		if len(frag.Meta) > 0 {
			merged.Meta = frag.Meta
		}
	}
	merged.Stats.RecomputePercentages()
	return merged, nil
}

// MergeDir runs the full fragment pipeline on a directory: rename ambiguous
// fragments, discover, merge.
func MergeDir(dir, glob string) (*models.Report, error) {
	if err := RenameFragments(dir); err != nil {
		return nil, err
	}
	paths, err := Discover(dir, glob)
	if err != nil {
		return nil, err
	}
	return Merge(paths)
}

// fragment mirrors models.Report but keeps stats optional so an absent
// stats block is distinguishable from an all-zero one.
type fragment struct {
	Stats   *models.Stats   `json:"stats"`
	Results []*models.Suite `json:"results"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

func parseFragment(path string) (*fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FragmentParseError{Path: path, Err: err}
	}
	var frag fragment
	if err := json.Unmarshal(data, &frag); err != nil {
		return nil, &FragmentParseError{Path: path, Err: err}
	}
	return &frag, nil
}

func addStats(dst *models.Stats, src *models.Stats) {
	if src == nil {
		return
	}
	dst.Suites += src.Suites
	dst.Tests += src.Tests
	dst.Passes += src.Passes
	dst.Pending += src.Pending
	dst.Failures += src.Failures
	dst.Duration += src.Duration
	dst.TestsRegistered += src.TestsRegistered
	dst.Skipped += src.Skipped
}
