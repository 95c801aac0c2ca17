package pipeline

import (
	"strings"

	"catalogo/internal"
	"catalogo/internal/util"
)

// SearchableText is the haystack the search tokens are matched against.
func SearchableText(r internal.Record) string {
	return strings.Join([]string{
		util.Normalize(r.ID),
		util.Normalize(r.ShortDescription),
		util.Normalize(r.LongDescription),
		util.Normalize(r.Unit),
	}, " ")
}

// IsAnyFacet reports whether a selector value means "every unit".
func IsAnyFacet(facet string) bool {
	key := util.Normalize(facet)
	return key == "" || key == internal.FacetAll || key == "all"
}
