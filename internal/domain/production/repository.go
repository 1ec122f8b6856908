package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
)

// ProductionOrderRepository defines persistence for production orders
type ProductionOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// CountOverlapping counts planned or in-progress orders whose window intersects [start, end)
	CountOverlapping(ctx context.Context, start, end time.Time) (int64, error)

	Save(ctx context.Context, order *ProductionOrder) error
	SaveWithLock(ctx context.Context, order *ProductionOrder) error
}
