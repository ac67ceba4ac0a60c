package session

import "context"

type storeContextKey struct{}

// NewContext stores the browser's Store in ctx.
func NewContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// FromContext extracts the Store, or nil.
func FromContext(ctx context.Context) *Store {
	store, _ := ctx.Value(storeContextKey{}).(*Store)
	return store
}

// SnapshotFromContext returns the current snapshot of the Store in ctx. A
// request without a Store is anonymous.
func SnapshotFromContext(ctx context.Context) Snapshot {
	if store := FromContext(ctx); store != nil {
		return store.Snapshot()
	}
	return Snapshot{State: Anonymous}
}
