package material

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
)

// RawMaterialRepository defines persistence for raw materials
type RawMaterialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RawMaterial, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]RawMaterial, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]RawMaterial, error)
	FindActive(ctx context.Context) ([]RawMaterial, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates a raw material
	Save(ctx context.Context, m *RawMaterial) error
}

// MaterialLotRepository defines persistence for material lots
type MaterialLotRepository interface {
	// FindByID finds a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*MaterialLot, error)

	// FindByIDForUpdate loads a lot and holds a row lock until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*MaterialLot, error)

	// FindByMaterial returns every lot ever received for a material
	FindByMaterial(ctx context.Context, materialID uuid.UUID) ([]MaterialLot, error)

	// FindByMaterialForUpdate locks the in-stock lots of a material
	FindByMaterialForUpdate(ctx context.Context, materialID uuid.UUID) ([]MaterialLot, error)

	// FindInStock returns non-terminal lots with remaining quantity
	FindInStock(ctx context.Context) ([]MaterialLot, error)

	// FindReceivedSince returns lots received at or after since
	FindReceivedSince(ctx context.Context, since time.Time) ([]MaterialLot, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]MaterialLot, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByLotNumber checks lot number uniqueness within a material
	ExistsByLotNumber(ctx context.Context, materialID uuid.UUID, lotNumber string) (bool, error)

	// Save inserts a new lot
	Save(ctx context.Context, lot *MaterialLot) error

	// SaveWithLock updates a lot, failing if its version moved
	SaveWithLock(ctx context.Context, lot *MaterialLot) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// LotConsumptionRepository persists consumption records
type LotConsumptionRepository interface {
	Save(ctx context.Context, c *LotConsumption) error
	FindByLot(ctx context.Context, lotID uuid.UUID) ([]LotConsumption, error)
	FindByProductionOrder(ctx context.Context, orderID uuid.UUID) ([]LotConsumption, error)
}
