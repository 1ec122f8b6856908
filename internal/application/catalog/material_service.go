package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/domain/supplier"
	"go.uber.org/zap"
)

// MaterialService manages the raw material master data
type MaterialService struct {
	materialRepo material.RawMaterialRepository
	supplierRepo supplier.SupplierRepository
	logger       *zap.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(
	materialRepo material.RawMaterialRepository,
	supplierRepo supplier.SupplierRepository,
	logger *zap.Logger,
) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{
		materialRepo: materialRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// Create registers a raw material for an existing supplier
func (s *MaterialService) Create(ctx context.Context, req CreateMaterialRequest) (*MaterialResponse, error) {
	m, err := material.NewRawMaterial(req.Code, req.Name, material.Category(req.Category), req.Unit, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if err := m.SetShelfLife(req.ShelfLifeDays); err != nil {
		return nil, err
	}
	if err := m.SetStorageTemperature(req.StorageTempMin, req.StorageTempMax); err != nil {
		return nil, err
	}
	m.Description = req.Description
	m.Allergens = req.Allergens
	m.CreatedBy = req.CreatedBy

	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, err
	}
	exists, err := s.materialRepo.ExistsByCode(ctx, m.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Conflict("material code %s already exists", m.Code)
	}

	if err := s.materialRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("Raw material registered",
		zap.String("material_code", m.Code),
		zap.String("category", string(m.Category)))

	resp := ToMaterialResponse(m)
	return &resp, nil
}

// GetByID retrieves a raw material by ID
func (s *MaterialService) GetByID(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	m, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMaterialResponse(m)
	return &resp, nil
}

// List retrieves raw materials with filtering and pagination
func (s *MaterialService) List(ctx context.Context, filter MaterialListFilter) ([]MaterialResponse, int64, error) {
	if filter.Category != "" && !material.Category(filter.Category).IsValid() {
		return nil, 0, shared.InvalidInput("invalid material category %q", filter.Category)
	}
	domainFilter := newDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "code")
	domainFilter.Search = filter.Search
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	materials, err := s.materialRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.materialRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]MaterialResponse, len(materials))
	for i := range materials {
		out[i] = ToMaterialResponse(&materials[i])
	}
	return out, total, nil
}

// Deactivate stops new lots from being received for the material
func (s *MaterialService) Deactivate(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	m, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsActive {
		return nil, shared.InvalidState("material %s is already inactive", m.Code)
	}
	m.Deactivate()
	if err := s.materialRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("Raw material deactivated", zap.String("material_code", m.Code))

	resp := ToMaterialResponse(m)
	return &resp, nil
}
