// Package prompt assembles the instruction document sent to the inference
// provider for one failing test.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adamwrona/verdict/pkg/models"
)

const (
	maxStackLines = 3
	maxContextLen = 500
)

// instructions is the fixed schema-and-rules preamble. The output schema
// mirrors models.Insight; the adjudication rules discriminate test defects
// from product defects.
const instructions = `You are an expert UI test failure analyst. Analyze the failing test below and respond with a single JSON object, no commentary, matching exactly this schema:

{
  "summary": "one sentence, at most 15 words",
  "humanError": "the error explained in plain language",
  "testRootCause": "why the test itself could be at fault, or 'unlikely'",
  "productRootCause": "why the product could be at fault, or 'unlikely'",
  "bugEffect": "what a user would experience if this is a product bug",
  "inferredExpected": "what the test expected to happen",
  "recommendation": "specific next step, at least 10 words",
  "severity": "low | medium | high | critical",
  "confidence": 0.0,
  "tags": ["up to 5 short keywords"]
}

Adjudication rules:
- An interactive action (click, type, submit) that completed with no observable side effect points to a product defect.
- A selector that never matched, or a syntax/reference error inside the test, points to a test defect.
- Timeouts are ambiguous on their own: adjudicate them by secondary evidence such as prior network failures or missing elements.
- Assertion mismatches on rendered content usually indicate a product defect unless the expectation is clearly stale.
- Confidence is your belief in the verdict between 0 and 1.`

// Build constructs the instruction document for one candidate test. It is
// pure text assembly: the same test always yields the same document.
func Build(t *models.Test) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\nFailing test:\n")

	title := t.FullTitle
	if title == "" {
		title = t.Title
	}
	fmt.Fprintf(&b, "- Title: %s\n", title)
	fmt.Fprintf(&b, "- Duration: %dms\n", t.Duration)

	if msg := t.ErrorMessage(); msg != "" {
		fmt.Fprintf(&b, "- Error: %s\n", msg)
	}
	if t.Err != nil && t.Err.Stack != "" {
		b.WriteString("- Stack (truncated):\n")
		for _, line := range headLines(t.Err.Stack, maxStackLines) {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	if snippet := contextSnippet(t.Context); snippet != "" {
		fmt.Fprintf(&b, "- Code context (truncated):\n%s\n", snippet)
	}
	return b.String()
}

func headLines(s string, n int) []string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

// contextSnippet renders at most maxContextLen characters of the test's
// context field, which may be a plain string or arbitrary structured JSON.
func contextSnippet(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	s = strings.TrimSpace(s)
	if len(s) > maxContextLen {
		s = s[:maxContextLen]
	}
	return s
}
