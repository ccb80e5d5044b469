// Package parishes matches loosely typed parish names against the parish
// reference list.
package parishes

import (
	"cmp"
	"slices"
	"strings"

	"bom-dashboard/internal/bom"
	"bom-dashboard/lib/textutil"

	"github.com/antzucaro/matchr"
)

// MinSimilarity is the Jaro-Winkler similarity below which a name is not
// considered a match by Best.
const MinSimilarity = 0.8

type Match struct {
	Name       string
	Similarity float64
	// Exact is set for matches that equal the input ignoring case,
	// whitespace and punctuation.
	Exact bool
}

// Resolve ranks names by similarity to input. Exact matches come first,
// then names that only differ in case, spacing or punctuation, then the
// rest by descending Jaro-Winkler similarity. At most limit matches are
// returned, all of them if limit <= 0.
func Resolve(input string, names []string, limit int) []Match {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	folded := strings.ToLower(input)

	matches := make([]Match, 0, len(names))
	for _, name := range names {
		if textutil.SameName(name, input) {
			matches = append(matches, Match{Name: name, Similarity: 1, Exact: true})
			continue
		}
		matches = append(matches, Match{
			Name:       name,
			Similarity: matchr.JaroWinkler(folded, strings.ToLower(name), false),
		})
	}

	rank := func(m Match) int {
		switch {
		case m.Name == input:
			return 0
		case m.Exact:
			return 1
		}
		return 2
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Best returns the closest name, if it is similar enough.
func Best(input string, names []string) (string, bool) {
	matches := Resolve(input, names, 1)
	if len(matches) == 0 || matches[0].Similarity < MinSimilarity {
		return "", false
	}
	return matches[0].Name, true
}

// Names extracts the display name of every parish record, in order and
// without duplicates.
func Names(records []bom.Record) []string {
	var out []string
	for _, record := range records {
		name := firstText(record, "canonical_name", "parish_name", "name")
		if name == "" || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func firstText(record bom.Record, fields ...string) string {
	for _, field := range fields {
		if s, ok := record.String(field); ok && s != "" {
			return s
		}
	}
	return ""
}
