package models

// Severity levels an insight may carry.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ModelNone is the modelUsed sentinel recorded when no model produced the
// insight (fallback path).
const ModelNone = "none"

// Insight is the structured diagnostic record attached to a failed test.
// After validation every field holds a non-empty value; missing or malformed
// model output is replaced by documented defaults.
type Insight struct {
	Summary          string   `json:"summary"`
	HumanError       string   `json:"humanError"`
	TestRootCause    string   `json:"testRootCause"`
	ProductRootCause string   `json:"productRootCause"`
	BugEffect        string   `json:"bugEffect"`
	InferredExpected string   `json:"inferredExpected"`
	Recommendation   string   `json:"recommendation"`
	Severity         string   `json:"severity"`
	Confidence       float64  `json:"confidence"`
	Tags             []string `json:"tags"`
	ModelUsed        string   `json:"modelUsed"`
}

// ValidSeverity reports whether s is one of the allowed severity values.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
