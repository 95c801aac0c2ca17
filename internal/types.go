package internal

import "time"

type Origin string

const (
	OriginCD1    Origin = "cd1"
	OriginZMM045 Origin = "zmm045"
)

// Record is the unified catalog row. Every string field is present; adapters
// substitute "" for anything the source left out.
type Record struct {
	ID               string `json:"id_item"`
	ShortDescription string `json:"desc_curta"`
	LongDescription  string `json:"desc_longa"`
	Unit             string `json:"unid_pec"`
	Origin           Origin `json:"origem"`
}

type FacetEntry struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}

// FacetAll is the selector value that matches any unit.
const FacetAll = "todas"

type FilterState struct {
	Search string `json:"search"`
	Facet  string `json:"facet"`
	Page   int    `json:"page"`
}

func InitialFilterState() FilterState {
	return FilterState{Search: "", Facet: FacetAll, Page: 1}
}

type Page struct {
	Items      []Record `json:"items"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	Total      int      `json:"total"`
	TotalPages int      `json:"totalPages"`
}

type Catalog struct {
	Records  []Record
	Facets   []FacetEntry
	TraceID  string
	LoadedAt time.Time
	Counts   map[Origin]int
}

type ViewStatus string

const (
	ViewOK         ViewStatus = "ok"
	ViewEmpty      ViewStatus = "empty"
	ViewLoadFailed ViewStatus = "load_failed"
)

type View struct {
	Status     ViewStatus   `json:"status"`
	State      FilterState  `json:"state"`
	Items      []Record     `json:"items"`
	Total      int          `json:"total"`
	TotalPages int          `json:"totalPages"`
	PageSize   int          `json:"pageSize"`
	Facets     []FacetEntry `json:"facets"`
	Error      string       `json:"error,omitempty"`
}

func (v View) HasPrev() bool { return v.State.Page > 1 }

func (v View) HasNext() bool { return v.State.Page < v.TotalPages }

type CartEntry struct {
	ID   string `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"nome"`
	Qty  int    `json:"qtd"`
}
