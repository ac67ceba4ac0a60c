package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTokenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisTokenStore(client, "console", "abc", time.Hour)
	ctx := context.Background()

	assert.Equal(t, "console:abc:token", store.Key())

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "T1"))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T1", token)
	assert.Equal(t, time.Hour, mr.TTL(store.Key()))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists(store.Key()))
}

func TestRedisTokenStoreBacksHydration(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := NewRedisTokenStore(client, "console", "sid", time.Hour)
	require.NoError(t, tokens.Save(context.Background(), "expired"))

	auth := &fakeAuth{currentUser: func(ctx context.Context, token string) (User, error) {
		return User{}, ErrUnauthenticated
	}}
	store := newTestStore(auth, tokens, &recordingHeader{})
	store.Hydrate(context.Background())

	assert.Equal(t, Anonymous, store.Snapshot().State)
	assert.False(t, mr.Exists(tokens.Key()))
}
