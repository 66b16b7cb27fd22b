// Package validate turns raw model output into a fully-populated insight
// record. Partial records never escape: every field is repaired to a
// documented default when the model omitted or mangled it.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/adamwrona/verdict/pkg/models"
)

// ErrMalformedResponse indicates no valid JSON object was recoverable from
// the model's output.
var ErrMalformedResponse = errors.New("malformed model response")

const (
	maxSummaryWords        = 15
	minRecommendationWords = 10
	maxTags                = 5
)

// Field defaults applied when the model omits a value.
const (
	defaultPlaceholder    = "Not determined by the model."
	defaultSummary        = "Test failure analyzed with incomplete model output."
	defaultSeverity       = models.SeverityMedium
	defaultConfidence     = 0.5
	recommendationPadding = "Review the failing step manually and re-run the test to confirm the behavior."
)

// Parse extracts the first balanced JSON object from raw model output,
// tolerating surrounding commentary or markdown fencing, and repairs it into
// a complete insight. It fails with ErrMalformedResponse when no JSON object
// can be recovered.
func Parse(raw string, t *models.Test) (*models.Insight, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	ins := &models.Insight{
		Summary:          stringField(fields, "summary", defaultSummary),
		HumanError:       stringField(fields, "humanError", defaultPlaceholder),
		TestRootCause:    stringField(fields, "testRootCause", defaultPlaceholder),
		ProductRootCause: stringField(fields, "productRootCause", defaultPlaceholder),
		BugEffect:        stringField(fields, "bugEffect", defaultPlaceholder),
		InferredExpected: stringField(fields, "inferredExpected", defaultPlaceholder),
		Recommendation:   stringField(fields, "recommendation", ""),
		Severity:         coerceSeverity(fields["severity"]),
		Confidence:       coerceConfidence(fields["confidence"]),
		Tags:             coerceTags(fields["tags"]),
	}

	ins.Summary = truncateWords(ins.Summary, maxSummaryWords)
	ins.Recommendation = repairRecommendation(ins.Recommendation)

	if len(ins.Tags) == 0 && t != nil {
		ins.Tags = DeriveTags(t.ErrorMessage(), t.Title)
	}
	if len(ins.Tags) == 0 {
		ins.Tags = []string{"unclassified"}
	}
	return ins, nil
}

// extractObject returns the first balanced {...} substring, skipping braces
// inside JSON strings.
func extractObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

func stringField(fields map[string]any, key, fallback string) string {
	if v, ok := fields[key].(string); ok {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return fallback
}

func coerceSeverity(v any) string {
	if s, ok := v.(string); ok {
		s = strings.ToLower(strings.TrimSpace(s))
		if models.ValidSeverity(s) {
			return s
		}
	}
	return defaultSeverity
}

func coerceConfidence(v any) float64 {
	var c float64
	switch n := v.(type) {
	case float64:
		c = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return defaultConfidence
		}
		c = parsed
	default:
		return defaultConfidence
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func coerceTags(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var tags []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				tags = append(tags, s)
			}
		}
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}

// repairRecommendation strips a trailing ellipsis and pads short
// recommendations with a fixed generic remediation sentence.
func repairRecommendation(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "…")
	s = strings.TrimSuffix(s, "...")
	s = strings.TrimSpace(s)
	if len(strings.Fields(s)) >= minRecommendationWords {
		return s
	}
	if s == "" {
		return recommendationPadding
	}
	return s + ". " + recommendationPadding
}
