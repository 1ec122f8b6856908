package haccp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
)

// CCPRepository defines persistence for control point definitions
type CCPRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CCP, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]CCP, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CCP, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, ccp *CCP) error
}

// CCPLogRepository defines persistence for monitoring logs
type CCPLogRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CCPLog, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CCPLog, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsNear reports whether ccpID has a log measured within DuplicateWindow of at
	ExistsNear(ctx context.Context, ccpID uuid.UUID, at time.Time) (bool, error)
	// FindByStatus returns logs in status, newest measurement first
	FindByStatus(ctx context.Context, status LogStatus) ([]CCPLog, error)
	// FindMeasuredSince returns logs measured at or after since, newest first
	FindMeasuredSince(ctx context.Context, since time.Time) ([]CCPLog, error)
	// FindOpenDeviationsByOrder returns out_of_limits and unverified corrective_action logs of an order
	FindOpenDeviationsByOrder(ctx context.Context, orderID uuid.UUID) ([]CCPLog, error)

	Save(ctx context.Context, log *CCPLog) error
	SaveWithLock(ctx context.Context, log *CCPLog) error
}
