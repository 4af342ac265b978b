package httputil

import (
	"fmt"
	"net/http"
	"strconv"
)

// Pagination holds validated page parameters parsed from a request.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PaginatedResponse is the envelope for list endpoints.
type PaginatedResponse struct {
	Items    any `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ParsePagination reads page and page_size query parameters. Missing values
// fall back to defaults, page_size is clamped to maxSize.
func ParsePagination(r *http.Request, defaultSize, maxSize int) (Pagination, error) {
	p := Pagination{Page: 1, PageSize: defaultSize}

	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return p, fmt.Errorf("page must be a positive integer")
		}
		p.Page = parsed
	}

	if v := r.URL.Query().Get("page_size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return p, fmt.Errorf("page_size must be a positive integer")
		}
		if parsed > maxSize {
			parsed = maxSize
		}
		p.PageSize = parsed
	}

	return p, nil
}
