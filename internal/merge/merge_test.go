package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMerge_SumsCountersAndRecomputesPercentages(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a_results.json", `{
		"stats": {"suites":1,"tests":5,"passes":5,"failures":0,"pending":0,"duration":100,"testsRegistered":5,"skipped":0},
		"results": [{"title":"suite a","tests":[],"suites":[]}]
	}`)
	b := writeFile(t, dir, "b_results.json", `{
		"stats": {"suites":1,"tests":3,"passes":1,"failures":2,"pending":0,"duration":50,"testsRegistered":3,"skipped":0},
		"results": [{"title":"suite b","tests":[],"suites":[]}]
	}`)

	merged, err := Merge([]string{a, b})
	require.NoError(t, err)

	assert.Equal(t, 8, merged.Stats.Tests)
	assert.Equal(t, 6, merged.Stats.Passes)
	assert.Equal(t, 2, merged.Stats.Failures)
	assert.Equal(t, int64(150), merged.Stats.Duration)
	assert.Equal(t, 8, merged.Stats.TestsRegistered)
	assert.InDelta(t, 75.0, merged.Stats.PassPercent, 0.0001)

	// Results concatenated in discovery order.
	require.Len(t, merged.Results, 2)
	assert.Equal(t, "suite a", merged.Results[0].Title)
	assert.Equal(t, "suite b", merged.Results[1].Title)
}

func TestMerge_AbsentStatsContributesZero(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a_results.json", `{
		"stats": {"tests":2,"passes":2,"testsRegistered":2},
		"results": []
	}`)
	b := writeFile(t, dir, "b_results.json", `{
		"results": [{"title":"statless","tests":[],"suites":[]}]
	}`)

	merged, err := Merge([]string{a, b})
	require.NoError(t, err)

	assert.Equal(t, 2, merged.Stats.Tests)
	assert.Equal(t, 2, merged.Stats.Passes)
	require.Len(t, merged.Results, 1)
	assert.Equal(t, "statless", merged.Results[0].Title)
}

func TestMerge_ZeroRegisteredYieldsZeroPercent(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a_results.json", `{"stats":{"tests":0,"testsRegistered":0},"results":[]}`)

	merged, err := Merge([]string{a})
	require.NoError(t, err)
	assert.Equal(t, 0.0, merged.Stats.PassPercent)
	assert.Equal(t, 0.0, merged.Stats.PendingPercent)
}

func TestMerge_KeepsLastSeenMeta(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a_results.json", `{"results":[],"meta":{"marker":"first"}}`)
	b := writeFile(t, dir, "b_results.json", `{"results":[],"meta":{"marker":"second"}}`)

	merged, err := Merge([]string{a, b})
	require.NoError(t, err)
	assert.Contains(t, string(merged.Meta), "second")
}

func TestMerge_UnparsableFragmentAbortsWholeMerge(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a_results.json", `{"stats":{"tests":1},"results":[]}`)
	bad := writeFile(t, dir, "b_results.json", `{not json`)

	_, err := Merge([]string{a, bad})
	require.Error(t, err)
	var parseErr *FragmentParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, bad, parseErr.Path)
}

func TestMerge_NoFragments(t *testing.T) {
	_, err := Merge(nil)
	require.Error(t, err)
}

func TestDiscover_GlobThenFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login_results.json", `{"results":[]}`)
	writeFile(t, dir, "checkout_results.json", `{"results":[]}`)

	paths, err := Discover(dir, "")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	// Empty dir with only the default-name report falls back to it.
	dir2 := t.TempDir()
	fallback := writeFile(t, dir2, DefaultReportName, `{"results":[]}`)
	paths, err = Discover(dir2, "")
	require.NoError(t, err)
	assert.Equal(t, []string{fallback}, paths)

	// Nothing at all.
	paths, err = Discover(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestMergeDir_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mochawesome.json", `{
		"stats": {"tests":5,"passes":5,"testsRegistered":5},
		"results": [{"title":"Login","file":"cypress/e2e/login.cy.js","tests":[],"suites":[]}]
	}`)
	writeFile(t, dir, "mochawesome_001.json", `{
		"stats": {"tests":3,"passes":1,"failures":2,"testsRegistered":3},
		"results": [{"title":"Checkout","file":"cypress/e2e/checkout.cy.js","tests":[],"suites":[]}]
	}`)

	merged, err := MergeDir(dir, "")
	require.NoError(t, err)
	assert.Equal(t, 8, merged.Stats.Tests)
	assert.InDelta(t, 75.0, merged.Stats.PassPercent, 0.0001)

	// Fragments were renamed to spec-derived names.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "login_cy_results.json")
	assert.Contains(t, names, "checkout_cy_results.json")
}
