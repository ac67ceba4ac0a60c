// Package consoletest signs a browser into a fake backend so screen handlers
// can be exercised end to end without Redis.
package consoletest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/console"
	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/testing/backendtest"
	"github.com/odyssey-erp/admin-console/internal/view"
)

// Password is the password of every account the harness creates.
const Password = "correct-horse"

// Harness is one signed-in browser.
type Harness struct {
	Backend *backendtest.Server
	Browser *console.Browser
	Cookie  *shared.Session
	Pages   view.Pages
	Logger  *slog.Logger
}

// New signs in a user holding role.
func New(t testing.TB, role roles.Role) *Harness {
	t.Helper()
	srv := backendtest.New(t)
	email := string(role) + "@example.com"
	srv.AddAccount(Password, backendtest.Item{"id": 7, "email": email, "name": "Test User", "role": string(role)})

	engine, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	factory := console.Factory{Backend: backend.New(srv.URL, srv.Client()), Logger: logger}
	br := factory.Build("browser-1")
	_, err = br.Store.Login(context.Background(), email, Password)
	require.NoError(t, err)

	return &Harness{
		Backend: srv,
		Browser: br,
		Cookie:  &shared.Session{ID: br.ID},
		Pages: view.Pages{
			Engine: engine,
			CSRF:   shared.NewCSRFManager("test-secret"),
			Table:  routes.Default,
			Logger: logger,
		},
		Logger: logger,
	}
}

// Request builds a request carrying the browser's session. A non-nil form is
// sent as an urlencoded body.
func (h *Harness) Request(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	ctx := shared.ContextWithSession(req.Context(), h.Cookie)
	return req.WithContext(console.NewContext(ctx, h.Browser))
}

// Serve routes req through mount under prefix.
func (h *Harness) Serve(prefix string, mount func(r chi.Router), req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route(prefix, mount)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// Flash pops the pending flash message text.
func (h *Harness) Flash() string {
	if msg := h.Cookie.PopFlash(); msg != nil {
		return msg.Message
	}
	return ""
}
