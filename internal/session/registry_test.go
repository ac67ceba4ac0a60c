package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuildsOncePerID(t *testing.T) {
	reg, err := NewRegistry[*Store](2)
	require.NoError(t, err)

	builds := 0
	build := func() *Store {
		builds++
		return NewStore(Options{})
	}

	a := reg.Get("a", build)
	assert.Same(t, a, reg.Get("a", build))
	assert.Equal(t, 1, builds)

	reg.Get("b", build)
	reg.Get("c", build)
	assert.Equal(t, 2, reg.Len())
	_, ok := reg.Peek("a")
	assert.False(t, ok, "least recently used store is evicted")

	reg.Remove("c")
	_, ok = reg.Peek("c")
	assert.False(t, ok)
}
