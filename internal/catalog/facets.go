package catalog

import (
	"sort"
	"strings"

	"catalogo/internal"
	"catalogo/internal/util"
)

// BuildFacets lists the distinct units of the catalog. Units that only differ
// by case or accents share one entry, displayed as first seen.
func BuildFacets(records []internal.Record) []internal.FacetEntry {
	seen := map[string]struct{}{}
	out := []internal.FacetEntry{}

	for _, r := range records {
		key := util.Normalize(r.Unit)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, internal.FacetEntry{Key: key, Display: strings.TrimSpace(r.Unit)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Display != out[j].Display {
			return out[i].Display < out[j].Display
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// FindFacet resolves a selector value (display or key form) to its entry.
func FindFacet(facets []internal.FacetEntry, value string) (internal.FacetEntry, bool) {
	key := util.Normalize(value)
	for _, f := range facets {
		if f.Key == key {
			return f, true
		}
	}
	return internal.FacetEntry{}, false
}
