package users

import (
	"net/http"
	"net/url"
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

func TestListShowsRoleLabels(t *testing.T) {
	h, handler := setup(t)
	h.Backend.Seed("users",
		backendtest.Item{"email": "w@example.com", "name": "Wendy", "role": "warehouse_admin"},
		backendtest.Item{"email": "x@example.com", "name": "Xavier", "role": "superuser"},
	)

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodGet, basePath+"/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Warehouse Admin")
	assert.Contains(t, body, "Unknown")
}

func TestCreateUser(t *testing.T) {
	h, handler := setup(t)
	form := url.Values{
		"email":    {" New@Example.com "},
		"name":     {"Nina"},
		"role":     {"support_staff"},
		"password": {"long-enough"},
	}

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/", form))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "User created", h.Flash())
	users := h.Backend.Items("users")
	require.Len(t, users, 1)
	assert.Equal(t, "new@example.com", users[0]["email"])
	assert.Equal(t, "support_staff", users[0]["role"])
}

func TestCreateUserValidation(t *testing.T) {
	h, handler := setup(t)
	form := url.Values{
		"email":    {"not-an-email"},
		"name":     {"Nina"},
		"role":     {"root"},
		"password": {"short"},
	}

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/", form))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Enter a valid email address")
	assert.Contains(t, body, "Choose one of the listed options")
	assert.Contains(t, body, "Must be at least 8 characters")
	assert.Empty(t, h.Backend.Items("users"))
}

func TestUpdateKeepsPasswordWhenBlank(t *testing.T) {
	h, handler := setup(t)
	h.Backend.Seed("users", backendtest.Item{"id": 20, "email": "s@example.com", "name": "Sam", "role": "support_staff", "password": "original"})

	form := url.Values{"email": {"s@example.com"}, "name": {"Sam"}, "role": {"warehouse_admin"}, "password": {""}}
	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/20", form))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	user := h.Backend.Items("users")[0]
	assert.Equal(t, "warehouse_admin", user["role"])
	assert.Equal(t, "original", user["password"])
}

func TestCannotDeleteSelf(t *testing.T) {
	h, handler := setup(t)
	h.Backend.Seed("users", backendtest.Item{"id": 7, "email": "platform_admin@example.com", "name": "Test User", "role": "platform_admin"})

	rec := h.Serve(basePath, handler.MountRoutes, h.Request(http.MethodPost, basePath+"/7/delete", url.Values{}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "You cannot delete your own account", h.Flash())
	assert.Len(t, h.Backend.Items("users"), 1)
}
