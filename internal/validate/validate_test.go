package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamwrona/verdict/pkg/models"
)

const fullResponse = `{
	"summary": "Selector never matched the submit button",
	"humanError": "The test could not find the button it wanted to click.",
	"testRootCause": "Selector may be stale after a UI refactor.",
	"productRootCause": "unlikely",
	"bugEffect": "None if the selector is stale.",
	"inferredExpected": "Clicking submit should navigate to the dashboard.",
	"recommendation": "Update the selector to use a stable data-testid attribute instead of CSS classes.",
	"severity": "high",
	"confidence": 0.85,
	"tags": ["selector", "flaky"]
}`

func TestParse_CleanObject(t *testing.T) {
	ins, err := Parse(fullResponse, nil)
	require.NoError(t, err)
	assert.Equal(t, "Selector never matched the submit button", ins.Summary)
	assert.Equal(t, "high", ins.Severity)
	assert.InDelta(t, 0.85, ins.Confidence, 0.0001)
	assert.Equal(t, []string{"selector", "flaky"}, ins.Tags)
}

func TestParse_StripsCommentaryAndFencing(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n```json\n" + fullResponse + "\n```\nLet me know if you need more."
	ins, err := Parse(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "high", ins.Severity)
}

func TestParse_BracesInsideStrings(t *testing.T) {
	raw := `{"summary": "object literal {a: 1} in message", "recommendation": "Check the braces handling in the parser before anything else happens."}`
	ins, err := Parse(raw, nil)
	require.NoError(t, err)
	assert.Contains(t, ins.Summary, "{a: 1}")
}

func TestParse_NoJSONObject(t *testing.T) {
	_, err := Parse("I cannot analyze this test.", nil)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParse_UnbalancedObject(t *testing.T) {
	_, err := Parse(`{"summary": "never closed`, nil)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParse_TotalDefaulting(t *testing.T) {
	ins, err := Parse(`{}`, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, ins.Summary)
	assert.NotEmpty(t, ins.HumanError)
	assert.NotEmpty(t, ins.TestRootCause)
	assert.NotEmpty(t, ins.ProductRootCause)
	assert.NotEmpty(t, ins.BugEffect)
	assert.NotEmpty(t, ins.InferredExpected)
	assert.NotEmpty(t, ins.Recommendation)
	assert.Equal(t, models.SeverityMedium, ins.Severity)
	assert.InDelta(t, 0.5, ins.Confidence, 0.0001)
	assert.NotEmpty(t, ins.Tags)
}

func TestParse_SummaryTruncatedToFifteenWords(t *testing.T) {
	long := strings.Repeat("word ", 30)
	ins, err := Parse(`{"summary": "`+strings.TrimSpace(long)+`"}`, nil)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(ins.Summary), 15)
}

func TestParse_RecommendationPaddedAndEllipsisStripped(t *testing.T) {
	ins, err := Parse(`{"recommendation": "Fix the test..."}`, nil)
	require.NoError(t, err)
	assert.NotContains(t, ins.Recommendation, "...")
	assert.GreaterOrEqual(t, len(strings.Fields(ins.Recommendation)), 10)
	assert.Contains(t, ins.Recommendation, "Fix the test")
}

func TestParse_SeverityCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"severity": "CRITICAL"}`, models.SeverityCritical},
		{`{"severity": "High"}`, models.SeverityHigh},
		{`{"severity": "catastrophic"}`, models.SeverityMedium},
		{`{"severity": 3}`, models.SeverityMedium},
		{`{}`, models.SeverityMedium},
	}
	for _, tt := range tests {
		ins, err := Parse(tt.raw, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ins.Severity, "raw: %s", tt.raw)
	}
}

func TestParse_ConfidenceClampedAndDefaulted(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`{"confidence": 1.7}`, 1.0},
		{`{"confidence": -0.3}`, 0.0},
		{`{"confidence": "0.9"}`, 0.9},
		{`{"confidence": "very sure"}`, 0.5},
		{`{}`, 0.5},
	}
	for _, tt := range tests {
		ins, err := Parse(tt.raw, nil)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, ins.Confidence, 0.0001, "raw: %s", tt.raw)
	}
}

func TestParse_TagsCappedAtFive(t *testing.T) {
	ins, err := Parse(`{"tags": ["a","b","c","d","e","f","g"]}`, nil)
	require.NoError(t, err)
	assert.Len(t, ins.Tags, 5)
}

func TestParse_EmptyTagsDerivedFromTest(t *testing.T) {
	tc := &models.Test{
		Title: "login redirects",
		Err:   &models.TestError{Message: "Timed out retrying after 4000ms"},
	}
	ins, err := Parse(`{"summary": "something"}`, tc)
	require.NoError(t, err)
	assert.Contains(t, ins.Tags, "timing")
}
