package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adamwrona/verdict/pkg/models"
)

// genericPrefix marks fragment files still carrying the reporter's default
// name, e.g. mochawesome.json or mochawesome_001.json.
const genericPrefix = "mochawesome"

// RenameFragments renames generically-named fragment files in dir to
// <derivedName>_results.json, where the name is derived from the first
// suite's originating spec path (or its title when no path is recorded).
// A rename is skipped when the destination already exists, so repeated runs
// over the same directory are idempotent and never overwrite a fragment.
func RenameFragments(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list report dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isGenericName(name) {
			continue
		}
		src := filepath.Join(dir, name)
		derived, err := deriveName(src)
		if err != nil || derived == "" {
			// Leave undecipherable fragments alone; Discover's fallback
			// still picks up the default name.
			continue
		}
		dst := filepath.Join(dir, derived+"_results.json")
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("failed to rename fragment %s: %w", src, err)
		}
	}
	return nil
}

func isGenericName(name string) bool {
	return strings.HasPrefix(name, genericPrefix) && strings.HasSuffix(name, ".json")
}

// deriveName parses the fragment and derives a stable token from its first
// suite's file path or title.
func deriveName(path string) (string, error) {
	frag, err := parseFragment(path)
	if err != nil {
		return "", err
	}
	suite := firstSuite(frag.Results)
	if suite == nil {
		return "", nil
	}
	source := suite.File
	if source != "" {
		source = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	} else {
		source = suite.Title
	}
	return sanitizeName(source), nil
}

func firstSuite(results []*models.Suite) *models.Suite {
	for _, root := range results {
		if root == nil {
			continue
		}
		if root.Title != "" || root.File != "" {
			return root
		}
		if nested := firstSuite(root.Suites); nested != nil {
			return nested
		}
	}
	return nil
}

// sanitizeName lowercases s and maps every run of non-alphanumeric
// characters to a single underscore.
func sanitizeName(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
