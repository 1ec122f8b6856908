package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/haccp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductionService handles production order use cases
type ProductionService struct {
	orderRepo      production.ProductionOrderRepository
	productRepo    product.ProductRepository
	ccpLogRepo     haccp.CCPLogRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	orderRepo production.ProductionOrderRepository,
	productRepo product.ProductRepository,
	ccpLogRepo haccp.CCPLogRepository,
	logger *zap.Logger,
) *ProductionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		ccpLogRepo:  ccpLogRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the clock used to validate planned dates
func (s *ProductionService) SetClock(now func() time.Time) {
	s.now = now
}

// Create plans a new production order
func (s *ProductionService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	order, err := production.NewProductionOrder(production.OrderPlan{
		OrderNumber:      req.OrderNumber,
		ProductID:        req.ProductID,
		PlannedQuantity:  req.PlannedQuantity,
		PlannedStartDate: req.PlannedStartDate,
		PlannedEndDate:   req.PlannedEndDate,
		Priority:         production.Priority(req.Priority),
		Notes:            req.Notes,
		AssignedOperator: req.AssignedOperator,
		CreatedBy:        req.CreatedBy,
	}, s.now())
	if err != nil {
		return nil, err
	}

	p, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, shared.InvalidState("product %s is inactive", p.Code)
	}

	exists, err := s.orderRepo.ExistsByOrderNumber(ctx, order.OrderNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Conflict("order number %s already exists", order.OrderNumber)
	}

	overlapping, err := s.orderRepo.CountOverlapping(ctx, order.PlannedStartDate, order.PlannedEndDate)
	if err != nil {
		return nil, err
	}
	if overlapping >= production.MaxConcurrentOrders {
		s.logger.Warn("Production window is full",
			zap.String("order_number", order.OrderNumber),
			zap.Int64("overlapping", overlapping))
		return nil, shared.InvalidState("at most %d orders may run in the same window", production.MaxConcurrentOrders)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Production order planned",
		zap.String("order_number", order.OrderNumber),
		zap.String("product_code", p.Code),
		zap.String("planned_quantity", order.PlannedQuantity.String()))
	s.publishDomainEvents(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves an order by ID
func (s *ProductionService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *ProductionService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "planned_start_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	if filter.Status != "" && !production.OrderStatus(filter.Status).IsValid() {
		return nil, 0, shared.InvalidInput("invalid order status %q", filter.Status)
	}
	if filter.Priority != "" && !production.Priority(filter.Priority).IsValid() {
		return nil, 0, shared.InvalidInput("invalid priority %q", filter.Priority)
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// Start begins production of a planned order
func (s *ProductionService) Start(ctx context.Context, orderID uuid.UUID, operator *uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(o *production.ProductionOrder) error {
		return o.Start(operator)
	})
}

// Complete finishes production. Orders with open HACCP deviations cannot complete.
func (s *ProductionService) Complete(ctx context.Context, orderID uuid.UUID, req CompleteOrderRequest) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(o *production.ProductionOrder) error {
		if !o.Status.CanTransitionTo(production.OrderStatusCompleted) {
			return o.Complete(req.ProducedQuantity, req.Notes)
		}
		open, err := s.ccpLogRepo.FindOpenDeviationsByOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return shared.InvalidState("order %s has %d open HACCP deviations", o.OrderNumber, len(open))
		}
		return o.Complete(req.ProducedQuantity, req.Notes)
	})
}

// Pause puts an in-progress order on hold
func (s *ProductionService) Pause(ctx context.Context, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(o *production.ProductionOrder) error {
		return o.Pause(reason)
	})
}

// Resume continues an order on hold
func (s *ProductionService) Resume(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(o *production.ProductionOrder) error {
		return o.Resume()
	})
}

// Cancel cancels a planned or in-progress order
func (s *ProductionService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(o *production.ProductionOrder) error {
		return o.Cancel(reason)
	})
}

func (s *ProductionService) mutate(ctx context.Context, orderID uuid.UUID, fn func(o *production.ProductionOrder) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		s.logger.Warn("Production order transition rejected",
			zap.String("order_number", order.OrderNumber),
			zap.String("status", order.Status.String()),
			zap.Error(err))
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Production order updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()))
	s.publishDomainEvents(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *ProductionService) publishDomainEvents(ctx context.Context, order *production.ProductionOrder) {
	if s.eventPublisher == nil {
		order.ClearDomainEvents()
		return
	}
	if err := s.eventPublisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish production events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
	order.ClearDomainEvents()
}
