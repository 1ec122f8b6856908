package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
)

// ProductRepository defines persistence for finished products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FinishedProduct, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]FinishedProduct, error)
	FindActive(ctx context.Context) ([]FinishedProduct, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, p *FinishedProduct) error
}

// BOMRepository defines persistence for BOM items
type BOMRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BOMItem, error)

	// FindActiveByProduct returns the active BOM lines of a product
	FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]BOMItem, error)

	// FindByProduct returns all BOM lines of a product, inactive included
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]BOMItem, error)

	// FindActiveByMaterial returns active BOM lines that reference a material
	FindActiveByMaterial(ctx context.Context, materialID uuid.UUID) ([]BOMItem, error)

	// ExistsActive reports whether an active line already links product and material
	ExistsActive(ctx context.Context, productID, materialID uuid.UUID) (bool, error)

	// ProductsWithActiveBOM returns the subset of productIDs that have at least one active line
	ProductsWithActiveBOM(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	Save(ctx context.Context, item *BOMItem) error
	Update(ctx context.Context, item *BOMItem) error
}
