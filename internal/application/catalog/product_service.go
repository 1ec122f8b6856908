package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService manages finished products
type ProductService struct {
	productRepo    product.ProductRepository
	bomRepo        product.BOMRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo product.ProductRepository, bomRepo product.BOMRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		bomRepo:     bomRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new finished product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	p, err := product.NewFinishedProduct(req.Code, req.Name, product.ProductSpec{
		Description:    req.Description,
		Version:        req.Version,
		ShelfLifeDays:  req.ShelfLifeDays,
		StorageTempMin: req.StorageTempMin,
		StorageTempMax: req.StorageTempMax,
		NetWeight:      req.NetWeight,
		PackagingType:  req.PackagingType,
		AllergenInfo:   req.AllergenInfo,
		NutritionFacts: req.NutritionFacts,
	})
	if err != nil {
		return nil, err
	}
	exists, err := s.productRepo.ExistsByCode(ctx, p.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Conflict("product code %s already exists", p.Code)
	}
	p.CreatedBy = req.CreatedBy

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Product registered",
		zap.String("product_code", p.Code),
		zap.String("version", p.Version))

	resp := ToProductResponse(p, false)
	return &resp, nil
}

// GetByID retrieves a product with its BOM flag
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	withBOM, err := s.bomRepo.ProductsWithActiveBOM(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p, withBOM[p.ID])
	return &resp, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := newDomainFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "code")
	domainFilter.Search = filter.Search
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	withBOM := map[uuid.UUID]bool{}
	if len(ids) > 0 {
		withBOM, err = s.bomRepo.ProductsWithActiveBOM(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
	}

	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i], withBOM[products[i].ID])
	}
	return out, total, nil
}

// Deactivate removes the product from production and cost summaries
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, shared.InvalidState("product %s is already inactive", p.Code)
	}
	p.Deactivate()
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Product deactivated", zap.String("product_code", p.Code))

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, product.NewProductDeactivatedEvent(p)); err != nil {
			s.logger.Error("Failed to publish product event",
				zap.String("product_code", p.Code),
				zap.Error(err))
		}
	}

	resp := ToProductResponse(p, false)
	return &resp, nil
}
