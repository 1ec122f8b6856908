package supplier

import (
	"context"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
)

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, s *Supplier) error
}
