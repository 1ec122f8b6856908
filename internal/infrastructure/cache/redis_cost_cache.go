package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/application/costing"
	domain "github.com/haccp/backend/internal/domain/costing"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const flushScanCount = 500

// RedisCostReportCache stores cost reports in Redis so that every instance
// serves and invalidates the same entries
type RedisCostReportCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisCostReportCache creates a cache on an existing client
func NewRedisCostReportCache(client redis.UniversalClient, keyPrefix string) *RedisCostReportCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisCostReportCache{client: client, keyPrefix: keyPrefix}
}

// Get returns the cached report for productID at quantity
func (c *RedisCostReportCache) Get(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (*domain.CostReport, bool, error) {
	data, err := c.client.Get(ctx, reportKey(c.keyPrefix, productID, quantity)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cost report: %w", err)
	}
	report, err := decodeReport(data)
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

// Set stores report under its product and quantity for ttl
func (c *RedisCostReportCache) Set(ctx context.Context, report *domain.CostReport, ttl time.Duration) error {
	data, err := encodeReport(report)
	if err != nil {
		return err
	}
	key := reportKey(c.keyPrefix, report.Product.ID, report.ProductionQuantity)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cost report: %w", err)
	}
	return nil
}

// Flush removes every key under the prefix. SCAN keeps the server responsive
// on large keyspaces; keys written during the scan may survive until their TTL.
func (c *RedisCostReportCache) Flush(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", flushScanCount).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cost reports: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cost reports: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ping checks connectivity
func (c *RedisCostReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

var _ costing.CostReportCache = (*RedisCostReportCache)(nil)
