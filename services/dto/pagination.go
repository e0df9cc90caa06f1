package dto

// PageRequest is a 1-indexed page request. Invalid values fall back to defaults.
type PageRequest struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// Normalize applies defaults: page < 1 becomes 1, page_size < 1 becomes def,
// page_size above max is capped.
func (p PageRequest) Normalize(def, max int) PageRequest {
	if def <= 0 {
		def = 10
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = def
	}
	if max > 0 && p.PageSize > max {
		p.PageSize = max
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PageResult is one page of items with its totals.
type PageResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// NewPageResult computes TotalPages from total and the page size.
func NewPageResult[T any](items []T, total int64, req PageRequest) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return PageResult[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}
}

// Paginate slices items already held in memory.
func Paginate[T any](items []T, req PageRequest) PageResult[T] {
	total := len(items)
	start := req.Offset()
	if start > total {
		start = total
	}
	end := start + req.PageSize
	if end > total {
		end = total
	}
	return NewPageResult(items[start:end], int64(total), req)
}
