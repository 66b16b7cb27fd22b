// Package extract selects the failing tests of a report that are eligible
// for enrichment.
package extract

import "github.com/adamwrona/verdict/pkg/models"

// Candidates walks the report's suite tree depth-first and returns every
// failed test that carries no existing insight. The returned slice holds
// shared pointers into the report so the caller can attach insights in
// place. Traversal order is the tree order: a suite's own tests first, then
// its nested suites. A visited set guards against malformed input whose
// suite graph loops back on itself.
func Candidates(r *models.Report) []*models.Test {
	var out []*models.Test
	visited := make(map[*models.Suite]bool)
	for _, root := range r.Results {
		walk(root, visited, &out)
	}
	return out
}

func walk(s *models.Suite, visited map[*models.Suite]bool, out *[]*models.Test) {
	if s == nil || visited[s] {
		return
	}
	visited[s] = true
	for _, t := range s.Tests {
		if t != nil && t.Failed() && t.AI == nil {
			*out = append(*out, t)
		}
	}
	for _, nested := range s.Suites {
		walk(nested, visited, out)
	}
}
