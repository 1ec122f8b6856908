package material

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LotConsumption records one decrement of a lot for traceability
type LotConsumption struct {
	shared.BaseEntity
	LotID             uuid.UUID
	MaterialID        uuid.UUID
	Quantity          decimal.Decimal
	RemainingQuantity decimal.Decimal
	ProductionOrderID *uuid.UUID
	Reference         string
	ConsumedAt        time.Time
	ConsumedBy        *uuid.UUID
}

// NewLotConsumption records a consumption that has just been applied to lot
func NewLotConsumption(lot *MaterialLot, quantity decimal.Decimal, productionOrderID *uuid.UUID, reference string) *LotConsumption {
	return &LotConsumption{
		BaseEntity:        shared.NewBaseEntity(),
		LotID:             lot.ID,
		MaterialID:        lot.MaterialID,
		Quantity:          quantity,
		RemainingQuantity: lot.QuantityCurrent,
		ProductionOrderID: productionOrderID,
		Reference:         reference,
		ConsumedAt:        time.Now(),
	}
}
