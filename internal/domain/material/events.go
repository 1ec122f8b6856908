package material

import (
	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeMaterialLot = "MaterialLot"

// Event type constants
const (
	EventTypeLotReceived      = "LotReceived"
	EventTypeLotQualityTested = "LotQualityTested"
	EventTypeLotStored        = "LotStored"
	EventTypeLotConsumed      = "LotConsumed"
	EventTypeLotRetired       = "LotRetired"
	EventTypeLotDeleted       = "LotDeleted"
)

// LotEventTypes lists every event that changes lot pricing inputs
func LotEventTypes() []string {
	return []string{
		EventTypeLotReceived,
		EventTypeLotQualityTested,
		EventTypeLotStored,
		EventTypeLotConsumed,
		EventTypeLotRetired,
		EventTypeLotDeleted,
	}
}

// MaterialScoped is implemented by events that belong to a raw material
type MaterialScoped interface {
	GetMaterialID() uuid.UUID
}

// LotEvent carries the fields common to all lot events
type LotEvent struct {
	shared.BaseDomainEvent
	LotID      uuid.UUID `json:"lot_id"`
	LotNumber  string    `json:"lot_number"`
	MaterialID uuid.UUID `json:"material_id"`
}

// GetMaterialID returns the material the lot belongs to
func (e *LotEvent) GetMaterialID() uuid.UUID {
	return e.MaterialID
}

func newLotEvent(eventType string, lot *MaterialLot) LotEvent {
	return LotEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeMaterialLot, lot.ID),
		LotID:           lot.ID,
		LotNumber:       lot.LotNumber,
		MaterialID:      lot.MaterialID,
	}
}

// LotReceivedEvent is raised at goods receipt
type LotReceivedEvent struct {
	LotEvent
	SupplierID uuid.UUID       `json:"supplier_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// NewLotReceivedEvent creates a new LotReceivedEvent
func NewLotReceivedEvent(lot *MaterialLot) *LotReceivedEvent {
	return &LotReceivedEvent{
		LotEvent:   newLotEvent(EventTypeLotReceived, lot),
		SupplierID: lot.SupplierID,
		Quantity:   lot.QuantityReceived,
		UnitPrice:  lot.UnitPrice,
	}
}

// LotQualityTestedEvent is raised when a quality verdict is recorded
type LotQualityTestedEvent struct {
	LotEvent
	Passed bool `json:"passed"`
}

// NewLotQualityTestedEvent creates a new LotQualityTestedEvent
func NewLotQualityTestedEvent(lot *MaterialLot) *LotQualityTestedEvent {
	return &LotQualityTestedEvent{
		LotEvent: newLotEvent(EventTypeLotQualityTested, lot),
		Passed:   lot.IsQualityPassed(),
	}
}

// LotStoredEvent is raised when a lot moves into storage
type LotStoredEvent struct {
	LotEvent
	StorageLocation string `json:"storage_location"`
}

// NewLotStoredEvent creates a new LotStoredEvent
func NewLotStoredEvent(lot *MaterialLot) *LotStoredEvent {
	return &LotStoredEvent{
		LotEvent:        newLotEvent(EventTypeLotStored, lot),
		StorageLocation: lot.StorageLocation,
	}
}

// LotConsumedEvent is raised on every consumption
type LotConsumedEvent struct {
	LotEvent
	Quantity          decimal.Decimal `json:"quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	NewStatus         LotStatus       `json:"new_status"`
}

// NewLotConsumedEvent creates a new LotConsumedEvent
func NewLotConsumedEvent(lot *MaterialLot, quantity decimal.Decimal) *LotConsumedEvent {
	return &LotConsumedEvent{
		LotEvent:          newLotEvent(EventTypeLotConsumed, lot),
		Quantity:          quantity,
		RemainingQuantity: lot.QuantityCurrent,
		NewStatus:         lot.Status,
	}
}

// LotRetiredEvent is raised when a lot is expired or rejected
type LotRetiredEvent struct {
	LotEvent
	Status LotStatus `json:"status"`
	Reason string    `json:"reason"`
}

// NewLotRetiredEvent creates a new LotRetiredEvent
func NewLotRetiredEvent(lot *MaterialLot) *LotRetiredEvent {
	return &LotRetiredEvent{
		LotEvent: newLotEvent(EventTypeLotRetired, lot),
		Status:   lot.Status,
		Reason:   lot.RetireReason,
	}
}

// LotDeletedEvent is raised after an untouched lot is deleted
type LotDeletedEvent struct {
	LotEvent
}

// NewLotDeletedEvent creates a new LotDeletedEvent
func NewLotDeletedEvent(lot *MaterialLot) *LotDeletedEvent {
	return &LotDeletedEvent{LotEvent: newLotEvent(EventTypeLotDeleted, lot)}
}
