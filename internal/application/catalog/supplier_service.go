package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/domain/supplier"
	"go.uber.org/zap"
)

// SupplierService handles supplier registration and status changes
type SupplierService struct {
	supplierRepo supplier.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo supplier.SupplierRepository, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{supplierRepo: supplierRepo, logger: logger}
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	sup, err := supplier.NewSupplier(req.Code, req.Name, supplier.ContactInfo{
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		return nil, err
	}
	exists, err := s.supplierRepo.ExistsByCode(ctx, sup.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Conflict("supplier code %s already exists", sup.Code)
	}
	if req.Certification != "" {
		sup.SetCertification(req.Certification)
	}
	sup.CreatedBy = req.CreatedBy

	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	s.logger.Info("Supplier registered", zap.String("supplier_code", sup.Code))

	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	if filter.Status != "" && !supplier.Status(filter.Status).IsValid() {
		return nil, 0, shared.InvalidInput("invalid supplier status %q", filter.Status)
	}
	domainFilter := newDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "code")
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out, total, nil
}

// ChangeStatus activates, deactivates or suspends a supplier
func (s *SupplierService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := sup.Status
	if err := sup.ChangeStatus(supplier.Status(status)); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	s.logger.Info("Supplier status changed",
		zap.String("supplier_code", sup.Code),
		zap.String("from", string(previous)),
		zap.String("to", string(sup.Status)))

	resp := ToSupplierResponse(sup)
	return &resp, nil
}
