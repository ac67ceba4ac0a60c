package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/admin-console/internal/backend"
)

type sample struct {
	Email string  `json:"email" validate:"required,email"`
	Role  string  `json:"role" validate:"required,role"`
	Lat   float64 `json:"latitude" validate:"latitude"`
	Name  string  `json:"name" form:"display_name" validate:"max=5"`
}

func TestFieldErrorsUseFormNames(t *testing.T) {
	err := Validate(sample{Email: "nope", Role: "root", Lat: 91, Name: "too long"})
	fields := FieldErrors(err)

	assert.Equal(t, "Enter a valid email address", fields["email"])
	assert.Equal(t, "Choose one of the listed options", fields["role"])
	assert.Equal(t, "Latitude must be between -90 and 90", fields["latitude"])
	assert.Equal(t, "Must be at most 5 characters", fields["display_name"])
}

func TestFieldErrorsValidStruct(t *testing.T) {
	assert.NoError(t, Validate(sample{Email: "a@b.co", Role: "support_staff", Lat: 10, Name: "ok"}))
	assert.Empty(t, FieldErrors(nil))
}

func TestFieldErrorsFallsBackToGeneral(t *testing.T) {
	fields := FieldErrors(errors.New("boom"))
	assert.Equal(t, map[string]string{"general": "Something went wrong, please try again"}, fields)
}

func TestRedirectIfUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/warehouses", nil)
	assert.True(t, RedirectIfUnauthorized(rec, req, &backend.APIError{Status: 401}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	assert.False(t, RedirectIfUnauthorized(httptest.NewRecorder(), req, &backend.APIError{Status: 403}))
}

func TestSortByNameCollates(t *testing.T) {
	names := []string{"zebra", "Éclair", "apple", "eagle"}
	SortByName(names, func(s string) string { return s })
	assert.Equal(t, []string{"apple", "eagle", "Éclair", "zebra"}, names)
}

func TestNewPaginationClampsPage(t *testing.T) {
	p := NewPagination(0, 0, 45)
	assert.Equal(t, Pagination{Page: 1, PerPage: DefaultPerPage, Total: 45, TotalPages: 3}, p)
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p = NewPagination(9, 20, 45)
	assert.Equal(t, 3, p.Page)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())

	p = NewPagination(2, 20, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext())
}

func TestParseListFilters(t *testing.T) {
	cases := []struct {
		query string
		want  ListFilters
	}{
		{"", ListFilters{Page: 1, Limit: DefaultPerPage}},
		{"page=3&limit=5", ListFilters{Page: 3, Limit: 5}},
		{"page=-1&limit=abc", ListFilters{Page: 1, Limit: DefaultPerPage}},
		{"limit=5000", ListFilters{Page: 1, Limit: MaxPerPage}},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/items?"+tc.query, nil)
		assert.Equal(t, tc.want, ParseListFilters(r), tc.query)
	}
}

func TestPaginateSlicesPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, p := Paginate(items, ListFilters{Page: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, 3, p.TotalPages)

	page, p = Paginate(items, ListFilters{Page: 7, Limit: 2})
	assert.Equal(t, []int{5}, page, "past the end lands on the last page")
	assert.Equal(t, 3, p.Page)

	page, _ = Paginate([]int{}, ListFilters{Page: 1, Limit: 2})
	assert.Empty(t, page)
}
