package product

import (
	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
)

// Aggregate types of product events
const (
	AggregateTypeBOMItem         = "BOMItem"
	AggregateTypeFinishedProduct = "FinishedProduct"
)

// Event type constants
const (
	EventTypeBOMItemAdded       = "BOMItemAdded"
	EventTypeBOMItemUpdated     = "BOMItemUpdated"
	EventTypeBOMItemRemoved     = "BOMItemRemoved"
	EventTypeProductDeactivated = "ProductDeactivated"
)

// BOMEventTypes lists every event that changes a bill of materials
func BOMEventTypes() []string {
	return []string{EventTypeBOMItemAdded, EventTypeBOMItemUpdated, EventTypeBOMItemRemoved}
}

// BOMChangedEvent is published whenever a BOM line is added, changed or removed
type BOMChangedEvent struct {
	shared.BaseDomainEvent
	BOMItemID  uuid.UUID `json:"bom_item_id"`
	ProductID  uuid.UUID `json:"product_id"`
	MaterialID uuid.UUID `json:"material_id"`
}

// GetMaterialID returns the material referenced by the line
func (e *BOMChangedEvent) GetMaterialID() uuid.UUID {
	return e.MaterialID
}

// NewBOMChangedEvent creates a BOM event of the given type
func NewBOMChangedEvent(eventType string, item *BOMItem) *BOMChangedEvent {
	return &BOMChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeBOMItem, item.ID),
		BOMItemID:       item.ID,
		ProductID:       item.ProductID,
		MaterialID:      item.MaterialID,
	}
}

// ProductDeactivatedEvent is published when a product leaves production and cost summaries
type ProductDeactivatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
}

// NewProductDeactivatedEvent creates a ProductDeactivatedEvent
func NewProductDeactivatedEvent(p *FinishedProduct) *ProductDeactivatedEvent {
	return &ProductDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeactivated, AggregateTypeFinishedProduct, p.ID),
		ProductID:       p.ID,
		Code:            p.Code,
	}
}
