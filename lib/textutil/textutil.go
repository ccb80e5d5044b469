package textutil

import (
	"regexp"
	"strings"
)

var ignoredRegex = regexp.MustCompile(`[\s.,'’]+`)

// NormalizeName folds case and drops whitespace and punctuation, so
// "St. Mary  Woolnoth" and "st mary woolnoth" normalize the same.
func NormalizeName(name string) string {
	return ignoredRegex.ReplaceAllString(strings.ToLower(name), "")
}

// SameName reports whether two names are equal after normalization.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
