package shared

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage is the list page size when none is requested.
	DefaultPerPage = 20
	// MaxPerPage caps the ?limit= parameter.
	MaxPerPage = 100
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata. Pages past the end are
// clamped to the last page.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p Pagination) PrevPage() int { return p.Page - 1 }
func (p Pagination) NextPage() int { return p.Page + 1 }

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page  int
	Limit int
}

// ParseListFilters reads ?page= and ?limit=. Malformed values fall back to
// the defaults rather than failing the page.
func ParseListFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	f := ListFilters{Page: 1, Limit: DefaultPerPage}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		f.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		f.Limit = min(limit, MaxPerPage)
	}
	return f
}

// Paginate cuts the requested page out of an already sorted list.
func Paginate[T any](items []T, f ListFilters) ([]T, Pagination) {
	p := NewPagination(f.Page, f.Limit, len(items))
	start := (p.Page - 1) * p.PerPage
	if start >= len(items) {
		return []T{}, p
	}
	end := min(start+p.PerPage, len(items))
	return items[start:end], p
}
