package models

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Page wraps a paginated listing.
type Page[T any] struct {
	Total      int64 `json:"total"`
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func CalculatePaginationMeta(page, limit int, total int64) (totalPages int, hasNext, hasPrev bool) {
	if limit <= 0 {
		limit = 1 // avoid division by zero
	}
	totalPages = int((total + int64(limit) - 1) / int64(limit))
	hasNext = page < totalPages
	hasPrev = page > 1
	return
}

func NewPage[T any](items []T, page, limit int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages, hasNext, hasPrev := CalculatePaginationMeta(page, limit, total)
	return Page[T]{
		Total:      total,
		Items:      items,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    hasNext,
		HasPrev:    hasPrev,
	}
}
