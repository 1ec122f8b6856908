package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/domain/supplier"
	"github.com/haccp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	var m models.SupplierModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "Supplier", id)
	}
	return m.ToDomain(), nil
}

// FindByIDs loads the suppliers with the given IDs; unknown IDs are skipped
func (r *GormSupplierRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]supplier.Supplier, error) {
	if len(ids) == 0 {
		return []supplier.Supplier{}, nil
	}
	var rows []models.SupplierModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return suppliersToDomain(rows), nil
}

// FindAll lists suppliers matching the filter
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supplier.Supplier, error) {
	var rows []models.SupplierModel
	query := paginate(r.filtered(ctx, filter), filter, SupplierSortFields, "code")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return suppliersToDomain(rows), nil
}

// Count counts suppliers matching the filter
func (r *GormSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

// ExistsByCode checks code uniqueness
func (r *GormSupplierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SupplierModel{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, s *supplier.Supplier) error {
	err := r.db.WithContext(ctx).Save(models.SupplierModelFromDomain(s)).Error
	return translateDuplicate(err, "supplier code %s already exists", s.Code)
}

func (r *GormSupplierRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.SupplierModel{})
	if v, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", v)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)", p, p)
	}
	return query
}

func suppliersToDomain(rows []models.SupplierModel) []supplier.Supplier {
	out := make([]supplier.Supplier, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormRawMaterialRepository implements RawMaterialRepository using GORM
type GormRawMaterialRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialRepository creates a new GormRawMaterialRepository
func NewGormRawMaterialRepository(db *gorm.DB) *GormRawMaterialRepository {
	return &GormRawMaterialRepository{db: db}
}

// FindByID finds a raw material by its ID
func (r *GormRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.RawMaterial, error) {
	var m models.RawMaterialModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "RawMaterial", id)
	}
	return m.ToDomain(), nil
}

// FindByIDs loads the materials with the given IDs; unknown IDs are skipped
func (r *GormRawMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]material.RawMaterial, error) {
	if len(ids) == 0 {
		return []material.RawMaterial{}, nil
	}
	var rows []models.RawMaterialModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return materialsToDomain(rows), nil
}

// FindAll lists raw materials matching the filter
func (r *GormRawMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	var rows []models.RawMaterialModel
	query := paginate(r.filtered(ctx, filter), filter, MaterialSortFields, "code")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return materialsToDomain(rows), nil
}

// FindActive returns every active raw material ordered by code
func (r *GormRawMaterialRepository) FindActive(ctx context.Context) ([]material.RawMaterial, error) {
	var rows []models.RawMaterialModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return materialsToDomain(rows), nil
}

// Count counts raw materials matching the filter
func (r *GormRawMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

// ExistsByCode checks code uniqueness
func (r *GormRawMaterialRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.RawMaterialModel{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}

// Save creates or updates a raw material
func (r *GormRawMaterialRepository) Save(ctx context.Context, m *material.RawMaterial) error {
	err := r.db.WithContext(ctx).Save(models.RawMaterialModelFromDomain(m)).Error
	return translateDuplicate(err, "material code %s already exists", m.Code)
}

func (r *GormRawMaterialRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.RawMaterialModel{})
	for key, value := range filter.Filters {
		switch key {
		case "category", "supplier_id", "is_active":
			query = query.Where(key+" = ?", value)
		}
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)", p, p)
	}
	return query
}

func materialsToDomain(rows []models.RawMaterialModel) []material.RawMaterial {
	out := make([]material.RawMaterial, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a finished product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.FinishedProduct, error) {
	var m models.FinishedProductModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "FinishedProduct", id)
	}
	return m.ToDomain(), nil
}

// FindAll lists products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]product.FinishedProduct, error) {
	var rows []models.FinishedProductModel
	query := paginate(r.filtered(ctx, filter), filter, ProductSortFields, "code")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindActive returns every active product ordered by code
func (r *GormProductRepository) FindActive(ctx context.Context) ([]product.FinishedProduct, error) {
	var rows []models.FinishedProductModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

// ExistsByCode checks code uniqueness
func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.FinishedProductModel{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *product.FinishedProduct) error {
	err := r.db.WithContext(ctx).Save(models.FinishedProductModelFromDomain(p)).Error
	return translateDuplicate(err, "product code %s already exists", p.Code)
}

func (r *GormProductRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.FinishedProductModel{})
	if v, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", v)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)", p, p)
	}
	return query
}

func productsToDomain(rows []models.FinishedProductModel) []product.FinishedProduct {
	out := make([]product.FinishedProduct, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormBOMRepository implements BOMRepository using GORM
type GormBOMRepository struct {
	db *gorm.DB
}

// NewGormBOMRepository creates a new GormBOMRepository
func NewGormBOMRepository(db *gorm.DB) *GormBOMRepository {
	return &GormBOMRepository{db: db}
}

// FindByID finds a BOM line by its ID
func (r *GormBOMRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.BOMItem, error) {
	var m models.BOMItemModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, "BOMItem", id)
	}
	return m.ToDomain(), nil
}

// FindActiveByProduct returns the active BOM lines of a product
func (r *GormBOMRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]product.BOMItem, error) {
	return r.find(ctx, "product_id = ? AND is_active = ?", productID, true)
}

// FindByProduct returns all BOM lines of a product
func (r *GormBOMRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]product.BOMItem, error) {
	return r.find(ctx, "product_id = ?", productID)
}

// FindActiveByMaterial returns active BOM lines that reference a material
func (r *GormBOMRepository) FindActiveByMaterial(ctx context.Context, materialID uuid.UUID) ([]product.BOMItem, error) {
	return r.find(ctx, "material_id = ? AND is_active = ?", materialID, true)
}

// ExistsActive reports whether an active line already links product and material
func (r *GormBOMRepository) ExistsActive(ctx context.Context, productID, materialID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BOMItemModel{}).
		Where("product_id = ? AND material_id = ? AND is_active = ?", productID, materialID, true).
		Count(&n).Error
	return n > 0, err
}

// ProductsWithActiveBOM returns the subset of productIDs that have an active line
func (r *GormBOMRepository) ProductsWithActiveBOM(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	if len(productIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.BOMItemModel{}).
		Where("product_id IN ? AND is_active = ?", productIDs, true).
		Distinct("product_id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// Save inserts a BOM line
func (r *GormBOMRepository) Save(ctx context.Context, item *product.BOMItem) error {
	return r.db.WithContext(ctx).Create(models.BOMItemModelFromDomain(item)).Error
}

// Update writes quantity, unit, notes and the active flag of a BOM line
func (r *GormBOMRepository) Update(ctx context.Context, item *product.BOMItem) error {
	result := r.db.WithContext(ctx).Model(&models.BOMItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity_per_unit": item.QuantityPerUnit,
			"unit":              item.Unit,
			"notes":             item.Notes,
			"is_active":         item.IsActive,
			"updated_at":        item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("BOMItem", item.ID)
	}
	return nil
}

func (r *GormBOMRepository) find(ctx context.Context, where string, args ...any) ([]product.BOMItem, error) {
	var rows []models.BOMItemModel
	if err := r.db.WithContext(ctx).Where(where, args...).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]product.BOMItem, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ supplier.SupplierRepository    = (*GormSupplierRepository)(nil)
	_ material.RawMaterialRepository = (*GormRawMaterialRepository)(nil)
	_ product.ProductRepository      = (*GormProductRepository)(nil)
	_ product.BOMRepository          = (*GormBOMRepository)(nil)
)
