package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMaterialLotRepository implements MaterialLotRepository using GORM
type GormMaterialLotRepository struct {
	db *gorm.DB
}

// NewGormMaterialLotRepository creates a new GormMaterialLotRepository
func NewGormMaterialLotRepository(db *gorm.DB) *GormMaterialLotRepository {
	return &GormMaterialLotRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormMaterialLotRepository) WithTx(tx *gorm.DB) *GormMaterialLotRepository {
	return &GormMaterialLotRepository{db: tx}
}

// FindByID finds a lot by its ID
func (r *GormMaterialLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.MaterialLot, error) {
	var m models.MaterialLotModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "MaterialLot", id)
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate loads a lot with SELECT ... FOR UPDATE
func (r *GormMaterialLotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*material.MaterialLot, error) {
	var m models.MaterialLotModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err, "MaterialLot", id)
	}
	return m.ToDomain(), nil
}

// FindByMaterial returns every lot of a material in receipt order
func (r *GormMaterialLotRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID) ([]material.MaterialLot, error) {
	var rows []models.MaterialLotModel
	err := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("received_date ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return lotsToDomain(rows), nil
}

// FindByMaterialForUpdate locks the in-stock lots of a material.
// Rows are locked in id order so concurrent consumers acquire them consistently.
func (r *GormMaterialLotRepository) FindByMaterialForUpdate(ctx context.Context, materialID uuid.UUID) ([]material.MaterialLot, error) {
	var rows []models.MaterialLotModel
	err := r.inStock(ctx).
		Where("material_id = ?", materialID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return lotsToDomain(rows), nil
}

// FindInStock returns non-terminal lots with remaining quantity
func (r *GormMaterialLotRepository) FindInStock(ctx context.Context) ([]material.MaterialLot, error) {
	var rows []models.MaterialLotModel
	if err := r.inStock(ctx).Order("received_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return lotsToDomain(rows), nil
}

// FindReceivedSince returns lots received at or after since
func (r *GormMaterialLotRepository) FindReceivedSince(ctx context.Context, since time.Time) ([]material.MaterialLot, error) {
	var rows []models.MaterialLotModel
	err := r.db.WithContext(ctx).
		Where("received_date >= ?", since).
		Order("received_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return lotsToDomain(rows), nil
}

// FindAll lists lots matching the filter
func (r *GormMaterialLotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]material.MaterialLot, error) {
	var rows []models.MaterialLotModel
	query := paginate(r.filtered(ctx, filter), filter, LotSortFields, "received_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return lotsToDomain(rows), nil
}

// Count counts lots matching the filter
func (r *GormMaterialLotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

// ExistsByLotNumber checks lot number uniqueness within a material
func (r *GormMaterialLotRepository) ExistsByLotNumber(ctx context.Context, materialID uuid.UUID, lotNumber string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MaterialLotModel{}).
		Where("material_id = ? AND lot_number = ?", materialID, lotNumber).
		Count(&n).Error
	return n > 0, err
}

// Save inserts a new lot
func (r *GormMaterialLotRepository) Save(ctx context.Context, lot *material.MaterialLot) error {
	err := r.db.WithContext(ctx).Create(models.MaterialLotModelFromDomain(lot)).Error
	return translateDuplicate(err, "lot %s already exists for this material", lot.LotNumber)
}

// SaveWithLock updates a lot only if the stored version is the one it was loaded with.
// The aggregate's Version has already been incremented by the domain operation.
func (r *GormMaterialLotRepository) SaveWithLock(ctx context.Context, lot *material.MaterialLot) error {
	m := models.MaterialLotModelFromDomain(lot)
	result := r.db.WithContext(ctx).
		Model(&models.MaterialLotModel{}).
		Where("id = ? AND version = ?", lot.ID, lot.Version-1).
		Select("*").Omit("id", "created_at", "created_by").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return optimisticLockFailed("material lot")
	}
	return nil
}

// Delete removes a lot
func (r *GormMaterialLotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MaterialLotModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("MaterialLot", id)
	}
	return nil
}

func (r *GormMaterialLotRepository) inStock(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("status IN ?", lotStatusStrings(material.ActiveLotStatuses())).
		Where("quantity_current > 0")
}

func (r *GormMaterialLotRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.MaterialLotModel{})
	for key, value := range filter.Filters {
		switch key {
		case "material_id", "supplier_id", "status", "quality_test_passed":
			query = query.Where(key+" = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("LOWER(lot_number) LIKE ?", likePattern(filter.Search))
	}
	return query
}

func lotStatusStrings(statuses []material.LotStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func lotsToDomain(rows []models.MaterialLotModel) []material.MaterialLot {
	out := make([]material.MaterialLot, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormLotConsumptionRepository implements LotConsumptionRepository using GORM
type GormLotConsumptionRepository struct {
	db *gorm.DB
}

// NewGormLotConsumptionRepository creates a new GormLotConsumptionRepository
func NewGormLotConsumptionRepository(db *gorm.DB) *GormLotConsumptionRepository {
	return &GormLotConsumptionRepository{db: db}
}

// Save appends a consumption record
func (r *GormLotConsumptionRepository) Save(ctx context.Context, c *material.LotConsumption) error {
	return r.db.WithContext(ctx).Create(models.LotConsumptionModelFromDomain(c)).Error
}

// FindByLot returns the consumption history of a lot, oldest first
func (r *GormLotConsumptionRepository) FindByLot(ctx context.Context, lotID uuid.UUID) ([]material.LotConsumption, error) {
	return r.find(ctx, "lot_id = ?", lotID)
}

// FindByProductionOrder returns the lots drawn by a production order
func (r *GormLotConsumptionRepository) FindByProductionOrder(ctx context.Context, orderID uuid.UUID) ([]material.LotConsumption, error) {
	return r.find(ctx, "production_order_id = ?", orderID)
}

func (r *GormLotConsumptionRepository) find(ctx context.Context, where string, args ...any) ([]material.LotConsumption, error) {
	var rows []models.LotConsumptionModel
	if err := r.db.WithContext(ctx).Where(where, args...).Order("consumed_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]material.LotConsumption, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ material.MaterialLotRepository    = (*GormMaterialLotRepository)(nil)
	_ material.LotConsumptionRepository = (*GormLotConsumptionRepository)(nil)
)
