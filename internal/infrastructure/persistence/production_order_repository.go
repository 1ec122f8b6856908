package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductionOrderRepository implements ProductionOrderRepository using GORM
type GormProductionOrderRepository struct {
	db *gorm.DB
}

// NewGormProductionOrderRepository creates a new GormProductionOrderRepository
func NewGormProductionOrderRepository(db *gorm.DB) *GormProductionOrderRepository {
	return &GormProductionOrderRepository{db: db}
}

// FindByID finds a production order by its ID
func (r *GormProductionOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionOrder, error) {
	var m models.ProductionOrderModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "ProductionOrder", id)
	}
	return m.ToDomain(), nil
}

// FindAll lists orders matching the filter
func (r *GormProductionOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionOrder, error) {
	var rows []models.ProductionOrderModel
	query := paginate(r.filtered(ctx, filter), filter, OrderSortFields, "planned_start_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]production.ProductionOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts orders matching the filter
func (r *GormProductionOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

// ExistsByOrderNumber checks order number uniqueness
func (r *GormProductionOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ProductionOrderModel{}).
		Where("order_number = ?", orderNumber).
		Count(&n).Error
	return n > 0, err
}

// CountOverlapping counts planned or in-progress orders whose window intersects [start, end)
func (r *GormProductionOrderRepository) CountOverlapping(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ProductionOrderModel{}).
		Where("status IN ?", []string{string(production.OrderStatusPlanned), string(production.OrderStatusInProgress)}).
		Where("planned_start_date < ? AND planned_end_date > ?", end, start).
		Count(&n).Error
	return n, err
}

// Save inserts a new production order
func (r *GormProductionOrderRepository) Save(ctx context.Context, order *production.ProductionOrder) error {
	err := r.db.WithContext(ctx).Create(models.ProductionOrderModelFromDomain(order)).Error
	return translateDuplicate(err, "order number %s already exists", order.OrderNumber)
}

// SaveWithLock updates an order guarded by its version
func (r *GormProductionOrderRepository) SaveWithLock(ctx context.Context, order *production.ProductionOrder) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductionOrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Select("*").Omit("id", "created_at", "created_by").
		Updates(models.ProductionOrderModelFromDomain(order))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return optimisticLockFailed("production order")
	}
	return nil
}

func (r *GormProductionOrderRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ProductionOrderModel{})
	for key, value := range filter.Filters {
		switch key {
		case "status", "priority", "product_id":
			query = query.Where(key+" = ?", value)
		}
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(order_number) LIKE ? OR LOWER(notes) LIKE ?)", p, p)
	}
	return query
}

var _ production.ProductionOrderRepository = (*GormProductionOrderRepository)(nil)
