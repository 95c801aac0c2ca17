package browser

import (
	"catalogo/internal"
	"catalogo/internal/pipeline"
)

type EventKind int

const (
	EventSearch EventKind = iota + 1
	EventFacet
	EventPage
)

type Event struct {
	Kind  EventKind
	Value string
	Page  int
}

func Search(text string) Event { return Event{Kind: EventSearch, Value: text} }
func Facet(value string) Event { return Event{Kind: EventFacet, Value: value} }
func GoToPage(page int) Event { return Event{Kind: EventPage, Page: page} }

// Session holds the filter state of one interactive user. Search and facet
// changes refilter and return to page 1; page changes only repaginate.
type Session struct {
	catalog  *internal.Catalog
	loadErr  error
	pageSize int

	state    internal.FilterState
	filtered []internal.Record
}

func NewSession(cat *internal.Catalog, loadErr error, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = pipeline.DefaultPageSize
	}
	s := &Session{catalog: cat, loadErr: loadErr, pageSize: pageSize, state: internal.InitialFilterState()}
	if cat == nil && loadErr == nil {
		s.loadErr = errNoCatalog
	}
	if s.loadErr == nil {
		s.refilter()
	}
	return s
}

func (s *Session) State() internal.FilterState { return s.state }

func (s *Session) Failed() bool { return s.loadErr != nil }

// View renders the current state without changing it.
func (s *Session) View() internal.View {
	if s.loadErr != nil {
		return LoadFailedView(s.loadErr)
	}
	return buildView(s.catalog, s.state, s.filtered, s.pageSize)
}

func (s *Session) Dispatch(ev Event) internal.View {
	if s.loadErr != nil {
		return LoadFailedView(s.loadErr)
	}

	switch ev.Kind {
	case EventSearch:
		s.state.Search = ev.Value
		s.state.Page = 1
		s.refilter()
	case EventFacet:
		s.state.Facet = ev.Value
		if pipeline.IsAnyFacet(ev.Value) {
			s.state.Facet = internal.FacetAll
		}
		s.state.Page = 1
		s.refilter()
	case EventPage:
		s.state.Page = ev.Page
	}

	return s.View()
}

func (s *Session) refilter() {
	s.filtered = pipeline.Filter(s.catalog.Records, s.state.Search, s.state.Facet)
}
