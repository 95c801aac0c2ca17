package pipeline

import (
	"strings"

	"catalogo/internal"
	"catalogo/internal/util"
)

// Filter returns, in their original order, the records containing every
// search token and matching the selected unit. The input is never modified.
func Filter(records []internal.Record, searchText string, facet string) []internal.Record {
	tokens := util.Tokenize(searchText)
	anyUnit := IsAnyFacet(facet)
	facetKey := util.Normalize(facet)

	out := make([]internal.Record, 0, len(records))
	for _, r := range records {
		if !anyUnit && util.Normalize(r.Unit) != facetKey {
			continue
		}
		if !matchesTokens(SearchableText(r), tokens) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesTokens(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}
