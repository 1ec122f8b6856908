package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BOMService maintains the bill of materials of each product.
// Every change publishes a BOM event so cached cost reports are dropped.
type BOMService struct {
	bomRepo        product.BOMRepository
	productRepo    product.ProductRepository
	materialRepo   material.RawMaterialRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBOMService creates a new BOMService
func NewBOMService(
	bomRepo product.BOMRepository,
	productRepo product.ProductRepository,
	materialRepo material.RawMaterialRepository,
	logger *zap.Logger,
) *BOMService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BOMService{
		bomRepo:      bomRepo,
		productRepo:  productRepo,
		materialRepo: materialRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BOMService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AddItem links a raw material to a product. The unit defaults to the material's unit.
func (s *BOMService) AddItem(ctx context.Context, req AddBOMItemRequest) (*BOMItemResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	m, err := s.materialRepo.FindByID(ctx, req.MaterialID)
	if err != nil {
		return nil, err
	}
	unit := req.Unit
	if unit == "" {
		unit = m.Unit
	}
	item, err := product.NewBOMItem(req.ProductID, req.MaterialID, req.QuantityPerUnit, unit, req.Notes)
	if err != nil {
		return nil, err
	}
	item.CreatedBy = req.CreatedBy

	exists, err := s.bomRepo.ExistsActive(ctx, req.ProductID, req.MaterialID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Conflict("material %s is already in the BOM of this product", m.Code)
	}

	if err := s.bomRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("BOM item added",
		zap.String("product_id", item.ProductID.String()),
		zap.String("material_code", m.Code),
		zap.String("quantity_per_unit", item.QuantityPerUnit.String()))
	s.publish(ctx, product.EventTypeBOMItemAdded, item)

	resp := ToBOMItemResponse(item, m)
	return &resp, nil
}

// UpdateItem changes quantity, unit or notes of an active BOM line
func (s *BOMService) UpdateItem(ctx context.Context, itemID uuid.UUID, req UpdateBOMItemRequest) (*BOMItemResponse, error) {
	item, err := s.bomRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, shared.InvalidState("BOM item is inactive")
	}
	if err := item.Update(req.QuantityPerUnit, req.Unit, req.Notes); err != nil {
		return nil, err
	}
	if err := s.bomRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("BOM item updated",
		zap.String("bom_item_id", item.ID.String()),
		zap.String("quantity_per_unit", item.QuantityPerUnit.String()))
	s.publish(ctx, product.EventTypeBOMItemUpdated, item)

	return s.toResponse(ctx, item), nil
}

// RemoveItem deactivates a BOM line; history is kept
func (s *BOMService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.bomRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := item.Deactivate(); err != nil {
		return err
	}
	if err := s.bomRepo.Update(ctx, item); err != nil {
		return err
	}
	s.logger.Info("BOM item removed", zap.String("bom_item_id", item.ID.String()))
	s.publish(ctx, product.EventTypeBOMItemRemoved, item)
	return nil
}

// ListByProduct returns the BOM of a product, inactive lines only when asked for
func (s *BOMService) ListByProduct(ctx context.Context, productID uuid.UUID, includeInactive bool) ([]BOMItemResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	var (
		items []product.BOMItem
		err   error
	)
	if includeInactive {
		items, err = s.bomRepo.FindByProduct(ctx, productID)
	} else {
		items, err = s.bomRepo.FindActiveByProduct(ctx, productID)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].MaterialID
	}
	byID := make(map[uuid.UUID]*material.RawMaterial, len(ids))
	if len(ids) > 0 {
		materials, err := s.materialRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range materials {
			byID[materials[i].ID] = &materials[i]
		}
	}

	out := make([]BOMItemResponse, len(items))
	for i := range items {
		out[i] = ToBOMItemResponse(&items[i], byID[items[i].MaterialID])
	}
	return out, nil
}

func (s *BOMService) toResponse(ctx context.Context, item *product.BOMItem) *BOMItemResponse {
	m, _ := s.materialRepo.FindByID(ctx, item.MaterialID)
	resp := ToBOMItemResponse(item, m)
	return &resp
}

func (s *BOMService) publish(ctx context.Context, eventType string, item *product.BOMItem) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, product.NewBOMChangedEvent(eventType, item)); err != nil {
		s.logger.Error("Failed to publish BOM event",
			zap.String("event_type", eventType),
			zap.String("bom_item_id", item.ID.String()),
			zap.Error(err))
	}
}
