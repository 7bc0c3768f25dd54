package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	appreport "github.com/stockflow/backend/internal/application/report"
)

// RedisStatsCache keeps the dashboard stats as one JSON value in redis
type RedisStatsCache struct {
	client *redis.Client
	key    string
}

// NewRedisStatsCache creates a stats cache on an existing client
func NewRedisStatsCache(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{client: client, key: keyPrefix + "dashboard:stats"}
}

// Get returns nil, nil on a miss
func (c *RedisStatsCache) Get(ctx context.Context) (*appreport.DashboardStats, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard stats: %w", err)
	}

	var stats appreport.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard stats: %w", err)
	}
	return &stats, nil
}

// Set stores stats for ttl
func (c *RedisStatsCache) Set(ctx context.Context, stats *appreport.DashboardStats, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard stats: %w", err)
	}
	if err := c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dashboard stats: %w", err)
	}
	return nil
}

// Invalidate drops the cached stats
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboard stats: %w", err)
	}
	return nil
}

// InMemoryStatsCache is the single-process StatsCache
type InMemoryStatsCache struct {
	mu        sync.RWMutex
	stats     *appreport.DashboardStats
	expiresAt time.Time
	now       func() time.Time
}

// NewInMemoryStatsCache creates an empty cache
func NewInMemoryStatsCache() *InMemoryStatsCache {
	return &InMemoryStatsCache{now: time.Now}
}

// Get returns a copy of the cached stats, nil when absent or expired
func (c *InMemoryStatsCache) Get(_ context.Context) (*appreport.DashboardStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.stats == nil || !c.now().Before(c.expiresAt) {
		return nil, nil
	}
	stats := *c.stats
	return &stats, nil
}

// Set stores a copy of stats for ttl
func (c *InMemoryStatsCache) Set(_ context.Context, stats *appreport.DashboardStats, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *stats
	c.stats = &copied
	c.expiresAt = c.now().Add(ttl)
	return nil
}

// Invalidate drops the cached stats
func (c *InMemoryStatsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
	return nil
}

var (
	_ appreport.StatsCache = (*RedisStatsCache)(nil)
	_ appreport.StatsCache = (*InMemoryStatsCache)(nil)
)
