package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/session"
)

type fakeBackend struct {
	mu          sync.Mutex
	validToken  string
	authHeaders []string
}

func (f *fakeBackend) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
}

func (f *fakeBackend) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.authHeaders) == 0 {
		return ""
	}
	return f.authHeaders[len(f.authHeaders)-1]
}

func (f *fakeBackend) authorized(r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validToken != "" && r.Header.Get("Authorization") == "Bearer "+f.validToken
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Email != "a@x.com" || body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
			return
		}
		fb.mu.Lock()
		fb.validToken = "T1"
		fb.mu.Unlock()
		_, _ = w.Write([]byte(`{"token":"T1","user":{"id":9,"email":"a@x.com","name":"Ana","role":"warehouse_admin","createdAt":"2024-01-02T03:04:05Z"}}`))
	})
	mux.HandleFunc("/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		if !fb.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"9","email":"a@x.com","name":"Ana","role":"warehouse_admin"}`))
	})
	mux.HandleFunc("/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	mux.HandleFunc("/warehouses/", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		if !fb.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"city":"Lyon"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

func TestLoginScenario(t *testing.T) {
	fb, srv := newFakeBackend(t)
	client := New(srv.URL, nil)
	store := session.NewStore(session.Options{Auth: client, Header: client})
	client.OnUnauthorized(func(ctx context.Context, token string) { store.Invalidate(ctx, token) })
	store.Hydrate(context.Background())

	user, err := store.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "9", user.ID)
	assert.Equal(t, roles.WarehouseAdmin, user.Role)
	assert.Equal(t, 2024, user.CreatedAt.Year())
	assert.True(t, store.Snapshot().IsAuthenticated())

	var rows []map[string]any
	require.NoError(t, client.Collection("warehouses").List(context.Background(), &rows))
	assert.Equal(t, "Bearer T1", fb.lastAuth())
	assert.Len(t, rows, 1)

	var labels []string
	for _, entry := range routes.Default.Navigation(store.Snapshot(), "/") {
		labels = append(labels, entry.Label)
	}
	assert.Equal(t, []string{"Dashboard", "Warehouses", "Announcements"}, labels)
}

func TestLoginRejected(t *testing.T) {
	_, srv := newFakeBackend(t)
	client := New(srv.URL, nil)
	store := session.NewStore(session.Options{Auth: client, Header: client})

	_, err := store.Login(context.Background(), "a@x.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Invalid credentials")
	assert.False(t, store.Snapshot().IsAuthenticated())
	assert.Empty(t, client.Bearer())
}

func TestUnauthorizedResponseInvalidatesSession(t *testing.T) {
	fb, srv := newFakeBackend(t)
	client := New(srv.URL, nil)
	store := session.NewStore(session.Options{Auth: client, Header: client})
	client.OnUnauthorized(func(ctx context.Context, token string) { store.Invalidate(ctx, token) })

	_, err := store.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)

	// The backend revokes the token behind the console's back.
	fb.mu.Lock()
	fb.validToken = "other"
	fb.mu.Unlock()

	var rows []map[string]any
	err = client.Collection("warehouses").List(context.Background(), &rows)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, session.Anonymous, store.Snapshot().State)
	assert.Empty(t, client.Bearer())
}

func TestHydrateAgainstBackend(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.validToken = "T1"
	client := New(srv.URL, nil)

	store := session.NewStore(session.Options{Auth: client, Header: client, Tokens: session.NewMemoryTokenStore("T1")})
	store.Hydrate(context.Background())
	snap := store.Snapshot()
	require.True(t, snap.IsAuthenticated())
	assert.Equal(t, "9", snap.User.ID)
	assert.Equal(t, "T1", client.Bearer())

	tokens := session.NewMemoryTokenStore("revoked")
	other := session.NewStore(session.Options{Auth: client.Clone(), Tokens: tokens})
	other.Hydrate(context.Background())
	assert.Equal(t, session.Anonymous, other.Snapshot().State)
	persisted, _ := tokens.Load(context.Background())
	assert.Empty(t, persisted)
}

func TestLogoutFailureIsNotReturned(t *testing.T) {
	_, srv := newFakeBackend(t)
	client := New(srv.URL, nil)
	store := session.NewStore(session.Options{Auth: client, Header: client})
	_, err := store.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)

	assert.NoError(t, store.Logout(context.Background()))
	assert.Equal(t, session.Anonymous, store.Snapshot().State)
	assert.Empty(t, client.Bearer())
}

func TestAPIErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing/1/":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		case "/forbidden/":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"city":["This field is required."]}`))
		}
	}))
	defer srv.Close()
	client := New(srv.URL, nil)

	err := client.Collection("missing").Get(context.Background(), "1", &struct{}{})
	assert.ErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Not found.", apiErr.Detail)

	assert.ErrorIs(t, client.Collection("forbidden").List(context.Background(), nil), ErrForbidden)

	err = client.Collection("warehouses").Create(context.Background(), map[string]string{}, nil)
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Contains(t, err.Error(), "This field is required.")
}

func TestCloneHasOwnBearer(t *testing.T) {
	base := New("http://example.invalid", nil)
	base.SetBearer("A")
	clone := base.Clone()
	assert.Empty(t, clone.Bearer())
	clone.SetBearer("B")
	assert.Equal(t, "A", base.Bearer())
}
