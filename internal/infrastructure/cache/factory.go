package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/haccp/backend/internal/application/costing"
	"github.com/haccp/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// NewRedisClient creates a client from configuration and verifies it answers
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewCostReportCache picks the Redis cache when Redis is enabled and reachable,
// otherwise the in-memory cache. The returned close function is never nil.
func NewCostReportCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (costing.CostReportCache, func() error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory cost cache")
		return NewInMemoryCostReportCache(), noop
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cost cache", zap.Error(err))
		return NewInMemoryCostReportCache(), noop
	}
	logger.Info("Using Redis cost cache", zap.String("addr", cfg.Addr()))
	return NewRedisCostReportCache(client, DefaultKeyPrefix), client.Close
}
