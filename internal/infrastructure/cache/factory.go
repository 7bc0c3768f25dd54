package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	appreport "github.com/stockflow/backend/internal/application/report"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory builds the redis-backed stores when redis is enabled and reachable,
// and in-memory ones otherwise
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithClient makes the factory use an existing redis client
func WithClient(client *redis.Client) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect opens the redis client when redis is enabled. It returns nil, nil
// when redis is disabled, or unreachable with fallback allowed.
func (f *Factory) Connect(ctx context.Context) (*redis.Client, error) {
	if f.client != nil {
		return f.client, nil
	}
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory stores")
		return nil, nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Idempotency keys will not be shared between instances.",
			zap.Error(err),
		)
		return nil, nil
	}

	f.logger.Info("connected to redis", zap.String("addr", f.redisConfig.RedisAddr()))
	f.client = client
	return client, nil
}

// CreateIdempotencyStore returns the store guarding stock entry retries
func (f *Factory) CreateIdempotencyStore(ctx context.Context) (shared.IdempotencyStore, error) {
	client, err := f.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NewInMemoryIdempotencyStore(0), nil
	}
	return NewRedisIdempotencyStore(client, ""), nil
}

// CreateStatsCache returns the dashboard stats cache
func (f *Factory) CreateStatsCache(ctx context.Context) (appreport.StatsCache, error) {
	client, err := f.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NewInMemoryStatsCache(), nil
	}
	return NewRedisStatsCache(client), nil
}
