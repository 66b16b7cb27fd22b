package enrich

import (
	"github.com/adamwrona/verdict/internal/validate"
	"github.com/adamwrona/verdict/pkg/models"
)

// Fixed field values of the fallback insight.
const (
	fallbackSummary        = "AI analysis unavailable"
	fallbackDetail         = "No inference model produced a usable analysis for this failure."
	fallbackRecommendation = "Re-run the enrichment once an inference provider credential is configured, then review the failure manually."
	fallbackTag            = "ai-unavailable"
)

// Fallback builds the deterministic insight substituted when every model in
// the priority list failed for a candidate. Tags are derived heuristically
// from the error text and title so the record still carries signal.
func Fallback(t *models.Test) *models.Insight {
	tags := append([]string{fallbackTag}, validate.DeriveTags(t.ErrorMessage(), t.Title)...)
	return &models.Insight{
		Summary:          fallbackSummary,
		HumanError:       fallbackDetail,
		TestRootCause:    fallbackDetail,
		ProductRootCause: fallbackDetail,
		BugEffect:        fallbackDetail,
		InferredExpected: fallbackDetail,
		Recommendation:   fallbackRecommendation,
		Severity:         models.SeverityMedium,
		Confidence:       0.0,
		Tags:             tags,
		ModelUsed:        models.ModelNone,
	}
}
