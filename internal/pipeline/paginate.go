package pipeline

import "catalogo/internal"

const DefaultPageSize = 20

// Paginate slices one page out of records. An empty list has zero pages, and a
// page outside 1..TotalPages yields no items instead of being clamped.
func Paginate(records []internal.Record, pageSize, page int) internal.Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize

	out := internal.Page{
		Items:      []internal.Record{},
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
	if page < 1 || page > totalPages {
		return out
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	out.Items = records[start:end:end]
	return out
}
