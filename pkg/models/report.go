package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// TestState represents the outcome of a single test.
type TestState string

const (
	StatePassed  TestState = "passed"
	StateFailed  TestState = "failed"
	StateSkipped TestState = "skipped"
	StatePending TestState = "pending"
)

// Stats holds the aggregate counters of a report. When fragments are merged,
// every additive counter is summed across fragments and the percentages are
// recomputed from the summed counters, never summed directly.
type Stats struct {
	Suites          int     `json:"suites"`
	Tests           int     `json:"tests"`
	Passes          int     `json:"passes"`
	Pending         int     `json:"pending"`
	Failures        int     `json:"failures"`
	Duration        int64   `json:"duration"`
	TestsRegistered int     `json:"testsRegistered"`
	Skipped         int     `json:"skipped"`
	PassPercent     float64 `json:"passPercent"`
	PendingPercent  float64 `json:"pendingPercent"`
}

// RecomputePercentages derives passPercent and pendingPercent from the
// counters, yielding 0 when no tests are registered.
func (s *Stats) RecomputePercentages() {
	if s.TestsRegistered == 0 {
		s.PassPercent = 0
		s.PendingPercent = 0
		return
	}
	s.PassPercent = float64(s.Passes) / float64(s.TestsRegistered) * 100
	s.PendingPercent = float64(s.Pending) / float64(s.TestsRegistered) * 100
}

// TestError carries the failure details of a test.
type TestError struct {
	Message string `json:"message,omitempty"`
	Stack   string `json:"estack,omitempty"`
}

// Test is a single test record. The pipeline mutates a Test only by
// attaching AI; everything else is immutable input.
type Test struct {
	Title     string          `json:"title"`
	FullTitle string          `json:"fullTitle,omitempty"`
	Duration  int64           `json:"duration"`
	State     TestState       `json:"state,omitempty"`
	Pass      bool            `json:"pass,omitempty"`
	Fail      bool            `json:"fail,omitempty"`
	Pending   bool            `json:"pending,omitempty"`
	Err       *TestError      `json:"err,omitempty"`
	Context   json.RawMessage `json:"context,omitempty"`
	AI        *Insight        `json:"ai,omitempty"`
}

// Failed reports whether the test failed, derived from the explicit state
// or the legacy boolean flags older reporters emit.
func (t *Test) Failed() bool {
	return t.State == StateFailed || (t.State == "" && t.Fail)
}

// ErrorMessage returns the failure message, empty when none was recorded.
func (t *Test) ErrorMessage() string {
	if t.Err == nil {
		return ""
	}
	return t.Err.Message
}

// Suite is a node in the recursive suite tree.
type Suite struct {
	Title  string   `json:"title"`
	Tests  []*Test  `json:"tests"`
	Suites []*Suite `json:"suites"`
	File   string   `json:"file,omitempty"`
}

// Report is one report artifact: aggregate stats plus the suite tree.
// Meta is opaque to the pipeline and carried through unchanged.
type Report struct {
	Stats   Stats           `json:"stats"`
	Results []*Suite        `json:"results"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

// HasFailures returns true if the report contains any failures.
func (r *Report) HasFailures() bool {
	return r.Stats.Failures > 0
}

// Load reads and parses a report file.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}

// Save writes the report back to path as indented JSON.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
