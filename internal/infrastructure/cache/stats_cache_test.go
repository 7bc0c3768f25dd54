package cache

import (
	"context"
	"testing"
	"time"

	appreport "github.com/stockflow/backend/internal/application/report"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats() *appreport.DashboardStats {
	return &appreport.DashboardStats{
		TotalProducts: 12,
		LowStock:      3,
		PendingReview: 1,
		OpenDrafts:    2,
		GeneratedAt:   time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}
}

func TestRedisStatsCache(t *testing.T) {
	mr, client := newMiniredisClient(t)
	c := NewRedisStatsCache(client)
	ctx := context.Background()

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "miss")

	require.NoError(t, c.Set(ctx, sampleStats(), 30*time.Second))
	got, err = c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *sampleStats(), *got)

	mr.FastForward(31 * time.Second)
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "expired")

	require.NoError(t, c.Set(ctx, sampleStats(), time.Minute))
	require.NoError(t, c.Invalidate(ctx))
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, mr.Set("stockflow:dashboard:stats", "not json"))
	_, err = c.Get(ctx)
	assert.Error(t, err)
}

func TestInMemoryStatsCache(t *testing.T) {
	c := NewInMemoryStatsCache()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleStats(), 30*time.Second))
	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	got.LowStock = 99
	again, _ := c.Get(ctx)
	assert.EqualValues(t, 3, again.LowStock, "callers get copies")

	now = now.Add(30 * time.Second)
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, sampleStats(), time.Minute))
	require.NoError(t, c.Invalidate(ctx))
	got, _ = c.Get(ctx)
	assert.Nil(t, got)
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled redis uses memory", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{Enabled: false})
		store, err := f.CreateIdempotencyStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)

		statsCache, err := f.CreateStatsCache(ctx)
		require.NoError(t, err)
		assert.IsType(t, &InMemoryStatsCache{}, statsCache)
	})

	t.Run("reachable redis", func(t *testing.T) {
		mr := miniredisServer(t)
		f := NewFactory(config.RedisConfig{Enabled: true, Host: mr.Host(), Port: mustPort(t, mr.Port())})

		store, err := f.CreateIdempotencyStore(ctx)
		require.NoError(t, err)
		assert.IsType(t, &RedisIdempotencyStore{}, store)

		statsCache, err := f.CreateStatsCache(ctx)
		require.NoError(t, err)
		assert.IsType(t, &RedisStatsCache{}, statsCache)
	})

	t.Run("unreachable redis", func(t *testing.T) {
		mr := miniredisServer(t)
		cfg := config.RedisConfig{Enabled: true, Host: mr.Host(), Port: mustPort(t, mr.Port())}
		mr.Close()

		store, err := NewFactory(cfg).CreateIdempotencyStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store, "falls back")

		_, err = NewFactory(cfg, WithInMemoryFallback(false)).CreateIdempotencyStore(ctx)
		assert.Error(t, err)
	})
}
