package shared

import (
	"context"
	"errors"

	"github.com/odyssey-erp/admin-console/internal/backend"
)

// ErrNoBackend means the request carries no backend client, which only
// happens when a screen is mounted outside the session middleware.
var ErrNoBackend = errors.New("no backend client in context")

// Repository is the CRUD surface every screen talks to.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, in any) (T, error)
	Update(ctx context.Context, id string, in any) (T, error)
	Delete(ctx context.Context, id string) error
}

// BackendRepository stores T in a backend collection using the browser's
// own client from the request context.
type BackendRepository[T any] struct {
	Collection string
}

// NewBackendRepository returns a repository over collection.
func NewBackendRepository[T any](collection string) BackendRepository[T] {
	return BackendRepository[T]{Collection: collection}
}

func (r BackendRepository[T]) collection(ctx context.Context) (backend.Collection, error) {
	client := backend.FromContext(ctx)
	if client == nil {
		return backend.Collection{}, ErrNoBackend
	}
	return client.Collection(r.Collection), nil
}

func (r BackendRepository[T]) List(ctx context.Context) ([]T, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := col.List(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r BackendRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	col, err := r.collection(ctx)
	if err != nil {
		return item, err
	}
	err = col.Get(ctx, id, &item)
	return item, err
}

func (r BackendRepository[T]) Create(ctx context.Context, in any) (T, error) {
	var item T
	col, err := r.collection(ctx)
	if err != nil {
		return item, err
	}
	err = col.Create(ctx, in, &item)
	return item, err
}

func (r BackendRepository[T]) Update(ctx context.Context, id string, in any) (T, error) {
	var item T
	col, err := r.collection(ctx)
	if err != nil {
		return item, err
	}
	err = col.Update(ctx, id, in, &item)
	return item, err
}

func (r BackendRepository[T]) Delete(ctx context.Context, id string) error {
	col, err := r.collection(ctx)
	if err != nil {
		return err
	}
	return col.Delete(ctx, id)
}
