package warehouses

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/session"
	"github.com/odyssey-erp/admin-console/internal/testing/backendtest"
	"github.com/odyssey-erp/admin-console/internal/testing/consoletest"
)

func setup(t *testing.T) (*consoletest.Harness, *Handler) {
	t.Helper()
	h := consoletest.New(t, roles.WarehouseAdmin)
	return h, NewHandler(h.Logger, NewBackendService(), h.Pages)
}

func TestListSortsByCity(t *testing.T) {
	h, handler := setup(t)
	h.Backend.Seed("warehouses",
		backendtest.Item{"city": "Surabaya", "latitude": -7.25, "longitude": 112.75},
		backendtest.Item{"city": "bandung", "latitude": -6.9, "longitude": 107.6},
	)

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodGet, basePath+"/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Less(t, indexOf(body, "bandung"), indexOf(body, "Surabaya"))
	assert.Contains(t, body, "-7.250000")
}

func TestCreateWarehouse(t *testing.T) {
	h, handler := setup(t)
	form := url.Values{"city": {" Jakarta "}, "latitude": {"-6.2"}, "longitude": {"106.8"}}

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/", form))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, basePath, rec.Header().Get("Location"))
	assert.Equal(t, "Warehouse created successfully", h.Flash())
	items := h.Backend.Items("warehouses")
	require.Len(t, items, 1)
	assert.Equal(t, "Jakarta", items[0]["city"])
	assert.InDelta(t, -6.2, items[0]["latitude"], 1e-9)
}

func TestCreateRejectsOutOfRangeLatitude(t *testing.T) {
	h, handler := setup(t)
	form := url.Values{"city": {"Nowhere"}, "latitude": {"120"}, "longitude": {"0"}}

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/", form))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Latitude must be between -90 and 90")
	assert.Empty(t, h.Backend.Items("warehouses"))
}

func TestCreateRejectsNonNumericCoordinates(t *testing.T) {
	h, handler := setup(t)
	form := url.Values{"city": {"Nowhere"}, "latitude": {"north"}, "longitude": {"0"}}

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/", form))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a number")
}

func TestUpdateAndDeleteWarehouse(t *testing.T) {
	h, handler := setup(t)
	h.Backend.Seed("warehouses", backendtest.Item{"id": 3, "city": "Medan", "latitude": 3.6, "longitude": 98.7})

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodGet, basePath+"/3/edit", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Medan"`)

	form := url.Values{"city": {"Medan Kota"}, "latitude": {"3.6"}, "longitude": {"98.7"}}
	rec = h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/3", form))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Medan Kota", h.Backend.Items("warehouses")[0]["city"])
	h.Flash()

	rec = h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/3/delete", url.Values{}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Warehouse deleted successfully", h.Flash())
	assert.Empty(t, h.Backend.Items("warehouses"))
}

func TestDeleteMissingWarehouseFlashesError(t *testing.T) {
	h, handler := setup(t)

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/99/delete", url.Values{}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "The record no longer exists", h.Flash())
}

func TestExpiredTokenRedirectsToLogin(t *testing.T) {
	h, handler := setup(t)
	h.Backend.Revoke(h.Browser.Client.Bearer())

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodGet, basePath+"/", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, session.Anonymous, h.Browser.Store.Snapshot().State)
}

func indexOf(s, sub string) int {
	return strings.Index(s, sub)
}

func TestListPaginates(t *testing.T) {
	h, handler := setup(t)
	h.Backend.Seed("warehouses",
		backendtest.Item{"city": "Cirebon", "latitude": -6.7, "longitude": 108.5},
		backendtest.Item{"city": "Ambon", "latitude": -3.7, "longitude": 128.2},
		backendtest.Item{"city": "Bogor", "latitude": -6.6, "longitude": 106.8},
	)

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodGet, basePath+"/?page=2&limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Cirebon")
	assert.NotContains(t, body, "Ambon")
	assert.NotContains(t, body, "Bogor")
	assert.Contains(t, body, "Page 2 of 2 (3 total)")
	assert.Contains(t, body, "Previous")
	assert.NotContains(t, body, ">Next<")
}
