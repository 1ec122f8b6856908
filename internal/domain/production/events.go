package production

import (
	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProductionOrder = "ProductionOrder"

// Event type constants
const (
	EventTypeProductionOrderCreated = "ProductionOrderCreated"
	EventTypeProductionStarted      = "ProductionStarted"
	EventTypeProductionCompleted    = "ProductionCompleted"
	EventTypeProductionPaused       = "ProductionPaused"
	EventTypeProductionResumed      = "ProductionResumed"
	EventTypeProductionCancelled    = "ProductionCancelled"
)

// OrderEvent carries the fields common to production order events
type OrderEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	ProductID   uuid.UUID   `json:"product_id"`
	Status      OrderStatus `json:"status"`
}

func newOrderEvent(eventType string, o *ProductionOrder) OrderEvent {
	return OrderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeProductionOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		ProductID:       o.ProductID,
		Status:          o.Status,
	}
}

// ProductionOrderCreatedEvent is raised when an order is planned
type ProductionOrderCreatedEvent struct {
	OrderEvent
	PlannedQuantity decimal.Decimal `json:"planned_quantity"`
}

// NewProductionOrderCreatedEvent creates a new ProductionOrderCreatedEvent
func NewProductionOrderCreatedEvent(o *ProductionOrder) *ProductionOrderCreatedEvent {
	return &ProductionOrderCreatedEvent{
		OrderEvent:      newOrderEvent(EventTypeProductionOrderCreated, o),
		PlannedQuantity: o.PlannedQuantity,
	}
}

// ProductionStartedEvent is raised when production begins
type ProductionStartedEvent struct {
	OrderEvent
}

// NewProductionStartedEvent creates a new ProductionStartedEvent
func NewProductionStartedEvent(o *ProductionOrder) *ProductionStartedEvent {
	return &ProductionStartedEvent{OrderEvent: newOrderEvent(EventTypeProductionStarted, o)}
}

// ProductionCompletedEvent is raised when production finishes.
// Subscribers consume the BOM materials for ProducedQuantity.
type ProductionCompletedEvent struct {
	OrderEvent
	ProducedQuantity decimal.Decimal `json:"produced_quantity"`
}

// NewProductionCompletedEvent creates a new ProductionCompletedEvent
func NewProductionCompletedEvent(o *ProductionOrder) *ProductionCompletedEvent {
	return &ProductionCompletedEvent{
		OrderEvent:       newOrderEvent(EventTypeProductionCompleted, o),
		ProducedQuantity: o.ProducedQuantity,
	}
}

// ProductionPausedEvent is raised when an order goes on hold
type ProductionPausedEvent struct {
	OrderEvent
	Reason string `json:"reason"`
}

// NewProductionPausedEvent creates a new ProductionPausedEvent
func NewProductionPausedEvent(o *ProductionOrder, reason string) *ProductionPausedEvent {
	return &ProductionPausedEvent{OrderEvent: newOrderEvent(EventTypeProductionPaused, o), Reason: reason}
}

// ProductionResumedEvent is raised when an order leaves hold
type ProductionResumedEvent struct {
	OrderEvent
}

// NewProductionResumedEvent creates a new ProductionResumedEvent
func NewProductionResumedEvent(o *ProductionOrder) *ProductionResumedEvent {
	return &ProductionResumedEvent{OrderEvent: newOrderEvent(EventTypeProductionResumed, o)}
}

// ProductionCancelledEvent is raised when an order is cancelled
type ProductionCancelledEvent struct {
	OrderEvent
	Reason string `json:"reason"`
}

// NewProductionCancelledEvent creates a new ProductionCancelledEvent
func NewProductionCancelledEvent(o *ProductionOrder) *ProductionCancelledEvent {
	return &ProductionCancelledEvent{OrderEvent: newOrderEvent(EventTypeProductionCancelled, o), Reason: o.CancelReason}
}
