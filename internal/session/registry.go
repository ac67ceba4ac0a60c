package session

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultRegistrySize caps the number of browser sessions held in memory.
const DefaultRegistrySize = 4096

// Registry holds one value, normally a Store or something owning one, per
// browser session id. Evicting an entry only drops memory; the persisted
// token survives and the next request re-hydrates.
type Registry[V any] struct {
	mu    sync.Mutex
	cache *lru.Cache[string, V]
}

// NewRegistry builds a registry holding at most size entries.
func NewRegistry[V any](size int) (*Registry[V], error) {
	if size <= 0 {
		size = DefaultRegistrySize
	}
	cache, err := lru.New[string, V](size)
	if err != nil {
		return nil, err
	}
	return &Registry[V]{cache: cache}, nil
}

// Get returns the entry for id, building it with build on first use.
func (r *Registry[V]) Get(id string, build func() V) V {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.cache.Get(id); ok {
		return v
	}
	v := build()
	r.cache.Add(id, v)
	return v
}

// Peek returns the entry for id without building one.
func (r *Registry[V]) Peek(id string) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Peek(id)
}

// Remove forgets the entry for id.
func (r *Registry[V]) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Remove(id)
}

// Len reports the number of live entries.
func (r *Registry[V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}
