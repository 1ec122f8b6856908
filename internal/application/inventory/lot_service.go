package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/domain/supplier"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LotService is the lot ledger: the only place where lot quantity and status change
type LotService struct {
	materialRepo    material.RawMaterialRepository
	supplierRepo    supplier.SupplierRepository
	lotRepo         material.MaterialLotRepository
	consumptionRepo material.LotConsumptionRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
	now             func() time.Time
}

// NewLotService creates a new LotService
func NewLotService(
	materialRepo material.RawMaterialRepository,
	supplierRepo supplier.SupplierRepository,
	lotRepo material.MaterialLotRepository,
	consumptionRepo material.LotConsumptionRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *LotService {
	if txScope == nil {
		txScope = NewNoOpTransactionScope(lotRepo, consumptionRepo)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LotService{
		materialRepo:    materialRepo,
		supplierRepo:    supplierRepo,
		lotRepo:         lotRepo,
		consumptionRepo: consumptionRepo,
		txScope:         txScope,
		logger:          logger,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LotService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the clock used for availability and expiry decisions
func (s *LotService) SetClock(now func() time.Time) {
	s.now = now
}

// publishDomainEvents publishes and clears the pending events of the given lots
func (s *LotService) publishDomainEvents(ctx context.Context, lots ...*material.MaterialLot) {
	if s.eventPublisher == nil {
		return
	}
	events := make([]shared.DomainEvent, 0)
	for _, lot := range lots {
		events = append(events, lot.GetDomainEvents()...)
		lot.ClearDomainEvents()
	}
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish lot events", zap.Error(err))
	}
}

// Receive records a goods receipt as a new lot
func (s *LotService) Receive(ctx context.Context, req ReceiveLotRequest) (*LotResponse, error) {
	mat, err := s.materialRepo.FindByID(ctx, req.MaterialID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("raw material", req.MaterialID)
		}
		return nil, err
	}
	if !mat.IsActive {
		return nil, shared.InvalidState("raw material %s is inactive", mat.Code)
	}
	sup, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("supplier", req.SupplierID)
		}
		return nil, err
	}
	if !sup.CanDeliver() {
		return nil, shared.InvalidState("supplier %s is %s", sup.Code, sup.Status)
	}

	lot, err := material.NewMaterialLot(mat, material.LotReceipt{
		SupplierID:           sup.ID,
		LotNumber:            req.LotNumber,
		QuantityReceived:     req.QuantityReceived,
		UnitPrice:            req.UnitPrice,
		ReceivedDate:         req.ReceivedDate,
		ExpiryDate:           req.ExpiryDate,
		StorageLocation:      req.StorageLocation,
		TemperatureAtReceipt: req.TemperatureAtReceipt,
		CreatedBy:            req.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	if req.QualityTestPassed != nil {
		if err := lot.RecordQualityTest(*req.QualityTestPassed, req.QualityTestNotes, s.now()); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.LotRepo().ExistsByLotNumber(ctx, mat.ID, lot.LotNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.Conflict("lot %s already exists for material %s", lot.LotNumber, mat.Code)
		}
		return repos.LotRepo().Save(ctx, lot)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lot received",
		zap.String("lot_id", lot.ID.String()),
		zap.String("lot_number", lot.LotNumber),
		zap.String("material", mat.Code),
		zap.String("quantity", lot.QuantityReceived.String()),
	)
	s.publishDomainEvents(ctx, lot)

	resp := ToLotResponse(lot, s.now())
	return &resp, nil
}

// GetByID retrieves a lot by ID
func (s *LotService) GetByID(ctx context.Context, lotID uuid.UUID) (*LotResponse, error) {
	lot, err := s.findLot(ctx, s.lotRepo, lotID, false)
	if err != nil {
		return nil, err
	}
	resp := ToLotResponse(lot, s.now())
	return &resp, nil
}

// List retrieves lots with filtering and pagination
func (s *LotService) List(ctx context.Context, filter LotListFilter) ([]LotResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "received_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	if filter.Status != "" && !material.LotStatus(filter.Status).IsValid() {
		return nil, 0, shared.InvalidInput("invalid lot status %q", filter.Status)
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.MaterialID != nil {
		domainFilter.Filters["material_id"] = *filter.MaterialID
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.QualityPassed != nil {
		domainFilter.Filters["quality_test_passed"] = *filter.QualityPassed
	}

	lots, err := s.lotRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.lotRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLotResponses(lots, s.now()), total, nil
}

// ListAvailable returns the lots of a material that may be priced or consumed, in FIFO order
func (s *LotService) ListAvailable(ctx context.Context, materialID uuid.UUID) ([]LotResponse, error) {
	if _, err := s.findMaterial(ctx, materialID); err != nil {
		return nil, err
	}
	lots, err := s.lotRepo.FindByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return ToLotResponses(material.AvailableLots(lots, now), now), nil
}

// RecordQualityTest stores the quality verdict of a lot
func (s *LotService) RecordQualityTest(ctx context.Context, lotID uuid.UUID, req QualityTestRequest) (*LotResponse, error) {
	return s.mutate(ctx, lotID, func(lot *material.MaterialLot, _ TransactionalRepositories) error {
		return lot.RecordQualityTest(req.Passed, req.Notes, s.now())
	})
}

// MoveToStorage moves a received lot into storage
func (s *LotService) MoveToStorage(ctx context.Context, lotID uuid.UUID, location string) (*LotResponse, error) {
	return s.mutate(ctx, lotID, func(lot *material.MaterialLot, _ TransactionalRepositories) error {
		return lot.MoveToStorage(location)
	})
}

// Consume decrements a single lot and records the consumption
func (s *LotService) Consume(ctx context.Context, lotID uuid.UUID, req ConsumeLotRequest) (*LotResponse, error) {
	resp, err := s.mutate(ctx, lotID, func(lot *material.MaterialLot, repos TransactionalRepositories) error {
		if err := lot.Consume(req.Quantity); err != nil {
			return err
		}
		record := material.NewLotConsumption(lot, req.Quantity, req.ProductionOrderID, req.Reference)
		record.ConsumedBy = req.ConsumedBy
		record.ConsumedAt = s.now()
		return repos.ConsumptionRepo().Save(ctx, record)
	})
	if err != nil {
		s.logger.Warn("lot consumption rejected",
			zap.String("lot_id", lotID.String()),
			zap.String("quantity", req.Quantity.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return resp, nil
}

// Retire moves a lot to expired or rejected
func (s *LotService) Retire(ctx context.Context, lotID uuid.UUID, req RetireLotRequest) (*LotResponse, error) {
	return s.mutate(ctx, lotID, func(lot *material.MaterialLot, _ TransactionalRepositories) error {
		return lot.Retire(material.LotStatus(req.Status), req.Reason)
	})
}

// Delete removes a lot that was never consumed
func (s *LotService) Delete(ctx context.Context, lotID uuid.UUID) error {
	var deleted *material.MaterialLot
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lot, err := s.findLot(ctx, repos.LotRepo(), lotID, true)
		if err != nil {
			return err
		}
		if err := lot.EnsureDeletable(); err != nil {
			return err
		}
		if err := repos.LotRepo().Delete(ctx, lot.ID); err != nil {
			return err
		}
		lot.AddDomainEvent(material.NewLotDeletedEvent(lot))
		deleted = lot
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("lot deleted", zap.String("lot_id", lotID.String()))
	s.publishDomainEvents(ctx, deleted)
	return nil
}

// ConsumeFIFO consumes a material across its available lots in FIFO order.
// Either the whole quantity is consumed or nothing is.
func (s *LotService) ConsumeFIFO(ctx context.Context, req ConsumeFIFORequest) (*FIFOConsumptionResponse, error) {
	if err := shared.CheckQuantity("consume quantity", req.Quantity); err != nil {
		return nil, err
	}

	var touched []*material.MaterialLot
	var records []material.LotConsumption
	var selection material.LotSelectionResult

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindByMaterialForUpdate(ctx, req.MaterialID)
		if err != nil {
			return err
		}
		now := s.now()
		available := material.AvailableLots(lots, now)
		selection = material.SelectFIFO(available, req.Quantity)
		if !selection.IsFulfilled() {
			return shared.NewDomainError(shared.CodeInsufficientStock,
				"insufficient available stock: required "+req.Quantity.String()+
					", available "+material.TotalQuantity(available).String())
		}

		byID := make(map[uuid.UUID]*material.MaterialLot, len(available))
		for i := range available {
			byID[available[i].ID] = &available[i]
		}
		touched = make([]*material.MaterialLot, 0, len(selection.Selections))
		records = make([]material.LotConsumption, 0, len(selection.Selections))
		for _, sel := range selection.Selections {
			lot := byID[sel.LotID]
			if err := lot.Consume(sel.Quantity); err != nil {
				return err
			}
			if err := repos.LotRepo().SaveWithLock(ctx, lot); err != nil {
				return err
			}
			record := material.NewLotConsumption(lot, sel.Quantity, req.ProductionOrderID, req.Reference)
			record.ConsumedBy = req.ConsumedBy
			record.ConsumedAt = now
			if err := repos.ConsumptionRepo().Save(ctx, record); err != nil {
				return err
			}
			touched = append(touched, lot)
			records = append(records, *record)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("fifo consumption rejected",
			zap.String("material_id", req.MaterialID.String()),
			zap.String("quantity", req.Quantity.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("material consumed",
		zap.String("material_id", req.MaterialID.String()),
		zap.String("quantity", selection.TotalQty.String()),
		zap.Int("lots", len(touched)),
	)
	s.publishDomainEvents(ctx, touched...)

	resp := &FIFOConsumptionResponse{
		MaterialID:    req.MaterialID,
		TotalQuantity: selection.TotalQty,
		TotalCost:     selection.TotalCost,
		Consumptions:  make([]ConsumptionResponse, len(records)),
	}
	for i := range records {
		resp.Consumptions[i] = ToConsumptionResponse(&records[i])
	}
	return resp, nil
}

// mutate loads a lot under a row lock, applies fn and saves with an optimistic version check
func (s *LotService) mutate(ctx context.Context, lotID uuid.UUID, fn func(lot *material.MaterialLot, repos TransactionalRepositories) error) (*LotResponse, error) {
	var lot *material.MaterialLot
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		lot, err = s.findLot(ctx, repos.LotRepo(), lotID, true)
		if err != nil {
			return err
		}
		if err := fn(lot, repos); err != nil {
			return err
		}
		return repos.LotRepo().SaveWithLock(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, lot)
	resp := ToLotResponse(lot, s.now())
	return &resp, nil
}

func (s *LotService) findLot(ctx context.Context, repo material.MaterialLotRepository, lotID uuid.UUID, forUpdate bool) (*material.MaterialLot, error) {
	var lot *material.MaterialLot
	var err error
	if forUpdate {
		lot, err = repo.FindByIDForUpdate(ctx, lotID)
	} else {
		lot, err = repo.FindByID(ctx, lotID)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("lot", lotID)
		}
		return nil, err
	}
	return lot, nil
}

func (s *LotService) findMaterial(ctx context.Context, materialID uuid.UUID) (*material.RawMaterial, error) {
	mat, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFound("raw material", materialID)
		}
		return nil, err
	}
	return mat, nil
}

// availableQuantity sums the available quantity of lots
func availableQuantity(lots []material.MaterialLot, now time.Time) decimal.Decimal {
	return material.TotalQuantity(material.AvailableLots(lots, now))
}
