package classify

import (
	"sort"

	"github.com/ajxudir/pipselect/pkg/outdated"
	"github.com/ajxudir/pipselect/pkg/pypi"
)

// FilterCandidates restricts upgrade candidates to the eligible set.
//
// It performs the following operations:
//   - Step 1: Drops candidates whose normalized name is not eligible
//   - Step 2: Sorts survivors by normalized name for a stable menu order
//
// Parameters:
//   - result: Classification outcome holding the eligible set
//   - candidates: Raw upgrade candidates from the pip query
//
// Returns:
//   - []outdated.Candidate: Eligible candidates sorted by normalized name
func FilterCandidates(result *Result, candidates []outdated.Candidate) []outdated.Candidate {
	var filtered []outdated.Candidate
	for _, candidate := range candidates {
		if _, ok := result.Eligible[pypi.Normalize(candidate.Name)]; ok {
			filtered = append(filtered, candidate)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return pypi.Normalize(filtered[i].Name) < pypi.Normalize(filtered[j].Name)
	})

	return filtered
}
