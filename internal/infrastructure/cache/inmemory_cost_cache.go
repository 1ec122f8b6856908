package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/application/costing"
	domain "github.com/haccp/backend/internal/domain/costing"
	"github.com/shopspring/decimal"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryCostReportCache is a process-local cache for single instance
// deployments and tests. Entries are stored encoded so callers never share
// a report value.
type InMemoryCostReportCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewInMemoryCostReportCache creates an empty cache
func NewInMemoryCostReportCache() *InMemoryCostReportCache {
	return &InMemoryCostReportCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock replaces the time source used for expiry
func (c *InMemoryCostReportCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *InMemoryCostReportCache) Get(_ context.Context, productID uuid.UUID, quantity decimal.Decimal) (*domain.CostReport, bool, error) {
	key := reportKey("", productID, quantity)
	c.mu.RLock()
	entry, ok := c.entries[key]
	now := c.now()
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !now.Before(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && !now.Before(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	report, err := decodeReport(entry.data)
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

func (c *InMemoryCostReportCache) Set(_ context.Context, report *domain.CostReport, ttl time.Duration) error {
	data, err := encodeReport(report)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[reportKey("", report.Product.ID, report.ProductionQuantity)] = memoryEntry{
		data:      data,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCostReportCache) Flush(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *InMemoryCostReportCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ costing.CostReportCache = (*InMemoryCostReportCache)(nil)
