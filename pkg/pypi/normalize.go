// Package pypi provides helpers for working with Python distribution names.
//
// Distribution names are compared after PEP 503 style normalization so that
// spellings that differ only in case or separator characters ("Foo_Bar",
// "foo.bar", "FOO-BAR") refer to the same project.
package pypi

import (
	"regexp"
	"strings"
)

// separatorRuns matches runs of the separator characters that PEP 503 treats
// as equivalent.
var separatorRuns = regexp.MustCompile(`[-_.]+`)

// Normalize canonicalizes a Python distribution name.
//
// It performs the following operations:
//   - Collapses every run of '-', '_' and '.' into a single '-'
//   - Lowercases the result
//   - Trims surrounding whitespace
//
// Parameters:
//   - name: the distribution name as reported by package metadata
//
// Returns:
//   - string: the normalized name suitable for set membership and sorting
func Normalize(name string) string {
	return strings.TrimSpace(strings.ToLower(separatorRuns.ReplaceAllString(name, "-")))
}

// Equal reports whether two distribution names refer to the same project
// after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
