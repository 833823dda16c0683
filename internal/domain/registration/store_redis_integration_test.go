//go:build integration

package registration

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisStore(t *testing.T) (*RedisStore, *redis.Client) {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, NewCodec(testBox())), client
}

func TestRedisStore(t *testing.T) {
	store, client := newRedisStore(t)
	ctx := context.Background()
	store.now = func() time.Time { return fixedNow }

	s := providerReady(t)
	require.NoError(t, store.Create(ctx, s))
	assert.ErrorIs(t, store.Create(ctx, s), ErrSessionExists)

	ttl, err := client.TTL(ctx, redisKey(s.ID)).Result()
	require.NoError(t, err)
	assert.InDelta(t, defaultTestTTL.Seconds(), ttl.Seconds(), 5)

	raw, err := client.Get(ctx, redisKey(s.ID)).Bytes()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), strongPassword)

	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	got.Draft.Provider().Bio = "Platform engineer"
	require.NoError(t, store.Save(ctx, got))

	again, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Platform engineer", again.Draft.Provider().Bio)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
