package console

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/session"
	"github.com/odyssey-erp/admin-console/internal/testing/backendtest"
)

func newFactory(t *testing.T) (Factory, *backendtest.Server) {
	t.Helper()
	srv := backendtest.New(t)
	srv.AddAccount("pw", backendtest.Item{"id": 1, "email": "ops@example.com", "name": "Ops", "role": "support_staff"})
	return Factory{Backend: backend.New(srv.URL, srv.Client())}, srv
}

func TestBrowserClientsAreIsolated(t *testing.T) {
	factory, _ := newFactory(t)
	a := factory.Build("a")
	b := factory.Build("b")

	_, err := a.Store.Login(context.Background(), "ops@example.com", "pw")
	require.NoError(t, err)

	assert.NotEmpty(t, a.Client.Bearer())
	assert.Empty(t, b.Client.Bearer())
	assert.Equal(t, session.Anonymous, b.Store.Snapshot().State)
}

func TestRejectedTokenInvalidatesBrowser(t *testing.T) {
	factory, srv := newFactory(t)
	br := factory.Build("a")
	ctx := context.Background()
	_, err := br.Store.Login(ctx, "ops@example.com", "pw")
	require.NoError(t, err)

	srv.Revoke(br.Client.Bearer())
	err = br.Client.Do(ctx, http.MethodGet, "/warehouses/", nil, nil)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)

	snap := br.Store.Snapshot()
	assert.Equal(t, session.Anonymous, snap.State)
	assert.Empty(t, br.Client.Bearer())
}

func TestBrowsersResolveOncePerID(t *testing.T) {
	factory, _ := newFactory(t)
	var seen []session.State
	factory.Listeners = []session.Listener{func(_, next session.Snapshot) {
		seen = append(seen, next.State)
	}}
	browsers, err := NewBrowsers(8, factory)
	require.NoError(t, err)

	first := browsers.Resolve("id-1")
	assert.Same(t, first, browsers.Resolve("id-1"))
	assert.Equal(t, 1, browsers.Len())

	first.Store.Hydrate(context.Background())
	assert.Equal(t, []session.State{session.Anonymous}, seen)

	browsers.Forget("id-1")
	assert.NotSame(t, first, browsers.Resolve("id-1"))

	ctx := NewContext(context.Background(), first)
	assert.Same(t, first.Store, session.FromContext(ctx))
	assert.Same(t, first.Client, backend.FromContext(ctx))
}
