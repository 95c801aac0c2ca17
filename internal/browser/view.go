package browser

import (
	"errors"

	"catalogo/internal"
	"catalogo/internal/pipeline"
)

var errNoCatalog = errors.New("catalog not loaded")

// Compute runs filter then paginate for a complete filter state. Stateless
// callers such as HTTP handlers use it directly.
func Compute(cat *internal.Catalog, state internal.FilterState, pageSize int) internal.View {
	if cat == nil {
		return LoadFailedView(errNoCatalog)
	}
	if pageSize <= 0 {
		pageSize = pipeline.DefaultPageSize
	}
	if pipeline.IsAnyFacet(state.Facet) {
		state.Facet = internal.FacetAll
	}
	filtered := pipeline.Filter(cat.Records, state.Search, state.Facet)
	return buildView(cat, state, filtered, pageSize)
}

func LoadFailedView(err error) internal.View {
	v := internal.View{
		Status: internal.ViewLoadFailed,
		State:  internal.InitialFilterState(),
		Items:  []internal.Record{},
		Facets: []internal.FacetEntry{},
	}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}

func buildView(cat *internal.Catalog, state internal.FilterState, filtered []internal.Record, pageSize int) internal.View {
	page := pipeline.Paginate(filtered, pageSize, state.Page)

	status := internal.ViewOK
	if page.Total == 0 {
		status = internal.ViewEmpty
	}

	facets := cat.Facets
	if facets == nil {
		facets = []internal.FacetEntry{}
	}

	return internal.View{
		Status:     status,
		State:      state,
		Items:      page.Items,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		PageSize:   page.PageSize,
		Facets:     facets,
	}
}
