package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameFragments_DerivesNameFromSpecPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mochawesome.json", `{
		"results": [{"title":"Login flow","file":"cypress/e2e/login.cy.js","tests":[],"suites":[]}]
	}`)

	require.NoError(t, RenameFragments(dir))

	_, err := os.Stat(filepath.Join(dir, "login_cy_results.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "mochawesome.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenameFragments_FallsBackToSuiteTitle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mochawesome_003.json", `{
		"results": [{"title":"Cart & Checkout!","tests":[],"suites":[]}]
	}`)

	require.NoError(t, RenameFragments(dir))

	_, err := os.Stat(filepath.Join(dir, "cart_checkout_results.json"))
	assert.NoError(t, err)
}

func TestRenameFragments_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mochawesome.json", `{
		"results": [{"title":"Search","file":"search.cy.ts","tests":[],"suites":[]}]
	}`)

	require.NoError(t, RenameFragments(dir))
	require.NoError(t, RenameFragments(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "search_cy_results.json", entries[0].Name())
}

func TestRenameFragments_NeverOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "search_cy_results.json", `{"results":[],"meta":{"original":true}}`)
	writeFile(t, dir, "mochawesome.json", `{
		"results": [{"title":"Search","file":"search.cy.ts","tests":[],"suites":[]}]
	}`)

	require.NoError(t, RenameFragments(dir))

	// The generic file stays put, the correctly named fragment is untouched.
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "original")
	_, err = os.Stat(filepath.Join(dir, "mochawesome.json"))
	assert.NoError(t, err)
}

func TestRenameFragments_SkipsUnderivableFragments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mochawesome.json", `{"results":[]}`)

	require.NoError(t, RenameFragments(dir))

	_, err := os.Stat(filepath.Join(dir, "mochawesome.json"))
	assert.NoError(t, err)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Login Flow", "login_flow"},
		{"cart & checkout!", "cart_checkout"},
		{"login.cy", "login_cy"},
		{"___", ""},
		{"Already_clean_123", "already_clean_123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), "sanitizeName(%q)", tt.in)
	}
}
