package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/testing/backendtest"
	"github.com/odyssey-erp/admin-console/internal/testing/consoletest"
)

func TestWarehouseAdminSeesOwnCounts(t *testing.T) {
	h := consoletest.New(t, roles.WarehouseAdmin)
	h.Backend.Seed("warehouses", backendtest.Item{"city": "A"}, backendtest.Item{"city": "B"})
	h.Backend.Seed("users", backendtest.Item{"name": "Hidden"})
	handler := NewHandler(h.Logger, h.Pages, DefaultSources)

	tiles, err := handler.tiles(h.Request(http.MethodGet, "/", nil).Context(), h.Browser.Store.Snapshot())
	require.NoError(t, err)

	require.Len(t, tiles, 2)
	assert.Equal(t, Tile{Path: "/warehouses", Label: "Warehouses", Count: 2}, tiles[0])
	assert.Equal(t, Tile{Path: "/announcements", Label: "Announcements", Count: 0}, tiles[1])
	assert.NotContains(t, h.Backend.Requests(), "GET /users/", "counts the user may not view are not fetched")
}

func TestDashboardGreetsUser(t *testing.T) {
	h := consoletest.New(t, roles.PlatformAdmin)
	handler := NewHandler(h.Logger, h.Pages, DefaultSources)

	rec := httptest.NewRecorder()
	handler.Show(rec, h.Request(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome, Test User")
	assert.Contains(t, body, "Signed in as Platform Admin")
	assert.Contains(t, body, `href="/users"`)
}

func TestFailedCountIsMarked(t *testing.T) {
	h := consoletest.New(t, roles.SupportStaff)
	handler := NewHandler(h.Logger, h.Pages, []Source{{Path: "/warehouses", Collection: "missing/nested"}})

	tiles, err := handler.tiles(h.Request(http.MethodGet, "/", nil).Context(), h.Browser.Store.Snapshot())
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	assert.True(t, tiles[0].Failed)
}

func TestRejectedTokenRedirects(t *testing.T) {
	h := consoletest.New(t, roles.SupportStaff)
	h.Backend.Revoke(h.Browser.Client.Bearer())
	handler := NewHandler(h.Logger, h.Pages, DefaultSources)

	rec := httptest.NewRecorder()
	handler.Show(rec, h.Request(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestMissingBackendClientFailsPage(t *testing.T) {
	h := consoletest.New(t, roles.PlatformAdmin)
	handler := NewHandler(h.Logger, h.Pages, DefaultSources)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), h.Cookie))

	rec := httptest.NewRecorder()
	handler.Show(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load dashboard")
	assert.NotContains(t, rec.Body.String(), "Welcome")
}
