//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestIdempotencyStore_Integration(t *testing.T) {
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	endpoint, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := Connect(ctx, Config{Addr: endpoint})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewIdempotencyStore(client, time.Minute)

	code, owned, err := store.Reserve(ctx, "req-1")
	require.NoError(t, err)
	assert.True(t, owned, "first caller owns the key")
	assert.Empty(t, code)

	code, owned, err = store.Reserve(ctx, "req-1")
	require.NoError(t, err)
	assert.False(t, owned, "second caller must not own a pending key")
	assert.Empty(t, code, "no code while the owner is still running")

	require.NoError(t, store.Complete(ctx, "req-1", "ENV001"))
	require.NoError(t, store.Release(ctx, "req-1"), "release after complete is a no-op")

	code, owned, err = store.Reserve(ctx, "req-1")
	require.NoError(t, err)
	assert.False(t, owned)
	assert.Equal(t, "ENV001", code)

	ttl, err := client.TTL(ctx, store.key("req-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, pendingTTL, "completed keys use the full ttl")
}

func TestIdempotencyStore_ReleaseFreesKey_Integration(t *testing.T) {
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	endpoint, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := Connect(ctx, Config{Addr: endpoint})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewIdempotencyStore(client, time.Minute)

	_, owned, err := store.Reserve(ctx, "req-2")
	require.NoError(t, err)
	require.True(t, owned)
	require.NoError(t, store.Release(ctx, "req-2"))

	_, owned, err = store.Reserve(ctx, "req-2")
	require.NoError(t, err)
	assert.True(t, owned, "a released key can be claimed again")
}
