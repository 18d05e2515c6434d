package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/modulith/modules/catalog/domain"
	"github.com/R3E-Network/modulith/modules/catalog/memory"
	"github.com/R3E-Network/modulith/pkg/logger"
)

func TestUnreachableRedisFallsThrough(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	inner := memory.New()
	repo := New(inner, client, time.Minute, logger.NewNop())
	ctx := context.Background()

	p := domain.CreateProduct("Widget", 3).Value().Entity
	require.NoError(t, repo.Save(ctx, p))
	assert.Equal(t, 1, inner.Len())

	got, err := repo.Get(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name())
}

func TestRedisIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis integration test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	inner := memory.New()
	repo := New(inner, client, time.Minute, logger.NewNop())

	p := domain.CreateProduct("Cached widget", 4.5).Value().Entity
	require.NoError(t, repo.Save(ctx, p))
	defer client.Del(ctx, Key(p.ID()))

	ttl, err := client.TTL(ctx, Key(p.ID())).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	got, err := New(memory.New(), client, time.Minute, logger.NewNop()).Get(ctx, p.ID())
	require.NoError(t, err, "expected the cached copy to be served without the inner store")
	assert.Equal(t, "Cached widget", got.Name())
}

func TestOnProductRenamedToleratesUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	repo := New(memory.New(), client, time.Minute, logger.NewNop())
	p := domain.CreateProduct("Widget", 3).Value().Entity
	renamed := p.Rename("Gadget").Value()[0]

	assert.Error(t, repo.Evict(context.Background(), p.ID()))
	assert.NotPanics(t, func() { repo.OnProductRenamed(context.Background(), renamed) })
}

func TestOnProductRenamedEvictsIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis integration test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	repo := New(memory.New(), client, time.Minute, logger.NewNop())

	p := domain.CreateProduct("Widget", 3).Value().Entity
	require.NoError(t, repo.Save(ctx, p))
	defer client.Del(ctx, Key(p.ID()))

	created := domain.CreateProduct("Other", 1).Value().Events[0]
	repo.OnProductRenamed(ctx, created)
	n, err := client.Exists(ctx, Key(p.ID())).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "unrelated events must not evict")

	repo.OnProductRenamed(ctx, p.Rename("Gadget").Value()[0])
	n, err = client.Exists(ctx, Key(p.ID())).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
