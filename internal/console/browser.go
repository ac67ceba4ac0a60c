// Package console ties a browser session to its Session Store and to the
// backend client that carries that store's bearer token.
package console

import (
	"context"
	"log/slog"
	"time"

	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/session"
)

// Browser is the per-browser state kept between requests.
type Browser struct {
	ID     string
	Store  *session.Store
	Client *backend.Client
}

// Factory builds Browsers.
type Factory struct {
	Backend        *backend.Client
	Tokens         func(browserID string) session.TokenStore
	Notifier       session.LogoutNotifier
	Logger         *slog.Logger
	HydrateTimeout time.Duration
	// Listeners are subscribed to every new store.
	Listeners []session.Listener
}

// Build creates the Browser for id: a fresh client clone, a store whose
// header sink is that clone, and the 401 hook that invalidates the store.
func (f Factory) Build(id string) *Browser {
	client := f.Backend.Clone()
	var tokens session.TokenStore
	if f.Tokens != nil {
		tokens = f.Tokens(id)
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := session.NewStore(session.Options{
		Tokens:         tokens,
		Auth:           client,
		Header:         client,
		Notifier:       f.Notifier,
		Logger:         logger,
		HydrateTimeout: f.HydrateTimeout,
	})
	client.OnUnauthorized(func(ctx context.Context, token string) {
		store.Invalidate(ctx, token)
	})
	for _, l := range f.Listeners {
		store.Subscribe(l)
	}
	return &Browser{ID: id, Store: store, Client: client}
}

// Browsers is the bounded set of live Browsers.
type Browsers struct {
	registry *session.Registry[*Browser]
	factory  Factory
}

// NewBrowsers keeps at most size browsers in memory.
func NewBrowsers(size int, factory Factory) (*Browsers, error) {
	reg, err := session.NewRegistry[*Browser](size)
	if err != nil {
		return nil, err
	}
	return &Browsers{registry: reg, factory: factory}, nil
}

// Resolve returns the Browser for id, building it on first sight.
func (b *Browsers) Resolve(id string) *Browser {
	return b.registry.Get(id, func() *Browser { return b.factory.Build(id) })
}

// Forget drops the Browser for id.
func (b *Browsers) Forget(id string) {
	b.registry.Remove(id)
}

// Len reports the number of live browsers.
func (b *Browsers) Len() int {
	return b.registry.Len()
}

// NewContext exposes br's store and client to downstream handlers.
func NewContext(ctx context.Context, br *Browser) context.Context {
	ctx = session.NewContext(ctx, br.Store)
	return backend.NewContext(ctx, br.Client)
}
