package categories

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/testing/backendtest"
	"github.com/odyssey-erp/admin-console/internal/testing/consoletest"
)

func setup(t *testing.T) (*consoletest.Harness, *Handler) {
	t.Helper()
	h := consoletest.New(t, roles.PlatformAdmin)
	return h, NewHandler(h.Logger, NewBackendService(), h.Pages)
}

func TestCategoryLifecycle(t *testing.T) {
	h, handler := setup(t)

	form := url.Values{"name": {"Electronics"}, "description": {"Gadgets"}}
	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/", form))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Category created successfully", h.Flash())

	items := h.Backend.Items("categories")
	require.Len(t, items, 1)
	assert.Equal(t, "Electronics", items[0]["name"])

	rec = h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodGet, basePath+"/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Gadgets")

	rec = h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/1/delete", url.Values{}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, h.Backend.Items("categories"))
}

func TestCategoryNameRequired(t *testing.T) {
	h, handler := setup(t)

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/", url.Values{"name": {" "}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required")
}

func TestSubCategoryCarriesParent(t *testing.T) {
	h, handler := setup(t)
	h.Backend.Seed("categories",
		backendtest.Item{"id": 1, "name": "Tools"},
		backendtest.Item{"id": 2, "name": "Apparel"},
	)

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodGet, subBasePath+"/new?category=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="2" selected>Apparel</option>`)

	form := url.Values{"name": {"Shirts"}, "category": {"2"}}
	rec = h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, subBasePath+"/", form))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, subBasePath, rec.Header().Get("Location"))

	subs := h.Backend.Items("subcategories")
	require.Len(t, subs, 1)
	assert.EqualValues(t, 2, subs[0]["category"], "integer ids are sent as numbers")
	assert.Equal(t, "Apparel", subs[0]["category_name"])
}

func TestSubCategoriesGroupedByCategory(t *testing.T) {
	h, handler := setup(t)
	h.Backend.Seed("categories", backendtest.Item{"id": 1, "name": "Tools"}, backendtest.Item{"id": 2, "name": "Apparel"})
	h.Backend.Seed("subcategories",
		backendtest.Item{"name": "Hammers", "category": 1},
		backendtest.Item{"name": "Socks", "category": 2},
		backendtest.Item{"name": "Hats", "category": 2},
	)

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodGet, subBasePath+"/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	hats, socks, hammers := strings.Index(body, "Hats"), strings.Index(body, "Socks"), strings.Index(body, "Hammers")
	assert.Less(t, hats, socks)
	assert.Less(t, socks, hammers)
}

func TestSubCategoryRequiresParent(t *testing.T) {
	h, handler := setup(t)

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, subBasePath+"/", url.Values{"name": {"Loose"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, h.Backend.Items("subcategories"))
}
