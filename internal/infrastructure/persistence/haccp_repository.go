package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCCPRepository implements CCPRepository using GORM
type GormCCPRepository struct {
	db *gorm.DB
}

// NewGormCCPRepository creates a new GormCCPRepository
func NewGormCCPRepository(db *gorm.DB) *GormCCPRepository {
	return &GormCCPRepository{db: db}
}

func (r *GormCCPRepository) FindByID(ctx context.Context, id uuid.UUID) (*haccp.CCP, error) {
	var m models.CCPModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "CCP", id)
	}
	return m.ToDomain(), nil
}

func (r *GormCCPRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]haccp.CCP, error) {
	if len(ids) == 0 {
		return []haccp.CCP{}, nil
	}
	var rows []models.CCPModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return ccpsToDomain(rows), nil
}

func (r *GormCCPRepository) FindAll(ctx context.Context, filter shared.Filter) ([]haccp.CCP, error) {
	var rows []models.CCPModel
	query := paginate(r.filtered(ctx, filter), filter, CCPSortFields, "code")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return ccpsToDomain(rows), nil
}

func (r *GormCCPRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *GormCCPRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CCPModel{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}

// Save creates or updates a control point definition
func (r *GormCCPRepository) Save(ctx context.Context, ccp *haccp.CCP) error {
	err := r.db.WithContext(ctx).Save(models.CCPModelFromDomain(ccp)).Error
	return translateDuplicate(err, "CCP code %s already exists", ccp.Code)
}

func (r *GormCCPRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CCPModel{})
	for key, value := range filter.Filters {
		switch key {
		case "ccp_type", "is_active", "product_id":
			query = query.Where(key+" = ?", value)
		}
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)", p, p)
	}
	return query
}

func ccpsToDomain(rows []models.CCPModel) []haccp.CCP {
	out := make([]haccp.CCP, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormCCPLogRepository implements CCPLogRepository using GORM
type GormCCPLogRepository struct {
	db *gorm.DB
}

// NewGormCCPLogRepository creates a new GormCCPLogRepository
func NewGormCCPLogRepository(db *gorm.DB) *GormCCPLogRepository {
	return &GormCCPLogRepository{db: db}
}

func (r *GormCCPLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*haccp.CCPLog, error) {
	var m models.CCPLogModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "CCPLog", id)
	}
	return m.ToDomain(), nil
}

func (r *GormCCPLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]haccp.CCPLog, error) {
	var rows []models.CCPLogModel
	query := paginate(r.filtered(ctx, filter), filter, CCPLogSortFields, "measured_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return logsToDomain(rows), nil
}

func (r *GormCCPLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

// ExistsNear reports whether ccpID has a log measured within DuplicateWindow of at
func (r *GormCCPLogRepository) ExistsNear(ctx context.Context, ccpID uuid.UUID, at time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CCPLogModel{}).
		Where("ccp_id = ?", ccpID).
		Where("measured_at BETWEEN ? AND ?", at.Add(-haccp.DuplicateWindow), at.Add(haccp.DuplicateWindow)).
		Count(&n).Error
	return n > 0, err
}

func (r *GormCCPLogRepository) FindByStatus(ctx context.Context, status haccp.LogStatus) ([]haccp.CCPLog, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", string(status)))
}

func (r *GormCCPLogRepository) FindMeasuredSince(ctx context.Context, since time.Time) ([]haccp.CCPLog, error) {
	return r.find(r.db.WithContext(ctx).Where("measured_at >= ?", since))
}

// FindOpenDeviationsByOrder returns out_of_limits and unverified corrective_action logs of an order
func (r *GormCCPLogRepository) FindOpenDeviationsByOrder(ctx context.Context, orderID uuid.UUID) ([]haccp.CCPLog, error) {
	query := r.db.WithContext(ctx).
		Where("production_order_id = ?", orderID).
		Where("(status = ? OR (status = ? AND verification_date IS NULL))",
			string(haccp.LogStatusOutOfLimits), string(haccp.LogStatusCorrectiveAction))
	return r.find(query)
}

// Save inserts a new monitoring log
func (r *GormCCPLogRepository) Save(ctx context.Context, log *haccp.CCPLog) error {
	return r.db.WithContext(ctx).Create(models.CCPLogModelFromDomain(log)).Error
}

// SaveWithLock updates a log guarded by its version
func (r *GormCCPLogRepository) SaveWithLock(ctx context.Context, log *haccp.CCPLog) error {
	result := r.db.WithContext(ctx).
		Model(&models.CCPLogModel{}).
		Where("id = ? AND version = ?", log.ID, log.Version-1).
		Select("*").Omit("id", "created_at", "created_by").
		Updates(models.CCPLogModelFromDomain(log))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return optimisticLockFailed("CCP log")
	}
	return nil
}

func (r *GormCCPLogRepository) find(query *gorm.DB) ([]haccp.CCPLog, error) {
	var rows []models.CCPLogModel
	if err := query.Order("measured_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return logsToDomain(rows), nil
}

func (r *GormCCPLogRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CCPLogModel{})
	for key, value := range filter.Filters {
		switch key {
		case "ccp_id", "production_order_id", "status":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

func logsToDomain(rows []models.CCPLogModel) []haccp.CCPLog {
	out := make([]haccp.CCPLog, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var (
	_ haccp.CCPRepository    = (*GormCCPRepository)(nil)
	_ haccp.CCPLogRepository = (*GormCCPLogRepository)(nil)
)
