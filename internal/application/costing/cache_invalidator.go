package costing

import (
	"context"

	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CostCacheInvalidator flushes cached cost reports whenever lot or BOM data changes
type CostCacheInvalidator struct {
	cache  CostReportCache
	logger *zap.Logger
}

// NewCostCacheInvalidator creates a new CostCacheInvalidator
func NewCostCacheInvalidator(cache CostReportCache, logger *zap.Logger) *CostCacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostCacheInvalidator{cache: cache, logger: logger}
}

// EventTypes returns the lot, BOM and product events that affect pricing
func (h *CostCacheInvalidator) EventTypes() []string {
	types := append([]string{}, material.LotEventTypes()...)
	types = append(types, product.BOMEventTypes()...)
	return append(types, product.EventTypeProductDeactivated)
}

// Handle flushes the cache
func (h *CostCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.cache == nil {
		return nil
	}
	fields := []zap.Field{zap.String("event_type", event.EventType())}
	if scoped, ok := event.(material.MaterialScoped); ok {
		fields = append(fields, zap.String("material_id", scoped.GetMaterialID().String()))
	}
	if err := h.cache.Flush(ctx); err != nil {
		h.logger.Error("Failed to flush cost cache", append(fields, zap.Error(err))...)
		return err
	}
	h.logger.Debug("Cost cache flushed", fields...)
	return nil
}
