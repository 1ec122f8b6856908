package inventory

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Report defaults
const (
	DefaultExpiringDays       = 7
	QualitySummaryPeriodDays  = 30
	InventoryExpiryWindowDays = 30
	FailingSupplierLimit      = 5
)

// DefaultLowStockThreshold is the available quantity below which a material is reported
var DefaultLowStockThreshold = decimal.NewFromInt(10)

// Traceability traces a lot from its supplier to every consumption
func (s *LotService) Traceability(ctx context.Context, lotID uuid.UUID) (*TraceabilityResponse, error) {
	lot, err := s.findLot(ctx, s.lotRepo, lotID, false)
	if err != nil {
		return nil, err
	}
	mat, err := s.findMaterial(ctx, lot.MaterialID)
	if err != nil {
		return nil, err
	}
	sup, err := s.supplierRepo.FindByID(ctx, lot.SupplierID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	records, err := s.consumptionRepo.FindByLot(ctx, lot.ID)
	if err != nil {
		return nil, err
	}

	resp := &TraceabilityResponse{
		Lot:      ToLotResponse(lot, s.now()),
		Material: MaterialSummary{ID: mat.ID, Code: mat.Code, Name: mat.Name, Unit: mat.Unit},
		Supplier: SupplierSummary{ID: lot.SupplierID},
		QualityControl: QualityControlInfo{
			TestPassed:           lot.QualityTestPassed,
			TestDate:             lot.QualityTestDate,
			TestNotes:            lot.QualityTestNotes,
			TemperatureAtReceipt: lot.TemperatureAtReceipt,
			StorageLocation:      lot.StorageLocation,
		},
		Usage: UsageHistory{
			OriginalQuantity: lot.QuantityReceived,
			CurrentQuantity:  lot.QuantityCurrent,
			ConsumedQuantity: lot.ConsumedQuantity(),
			UsageRate:        lot.UsageRate().Round(2),
		},
		Consumptions: make([]ConsumptionResponse, len(records)),
	}
	if sup != nil {
		resp.Supplier.Code = sup.Code
		resp.Supplier.Name = sup.Name
	}
	for i := range records {
		resp.Consumptions[i] = ToConsumptionResponse(&records[i])
	}
	return resp, nil
}

// ConsumptionHistory returns the consumption records of a lot
func (s *LotService) ConsumptionHistory(ctx context.Context, lotID uuid.UUID) ([]ConsumptionResponse, error) {
	if _, err := s.findLot(ctx, s.lotRepo, lotID, false); err != nil {
		return nil, err
	}
	records, err := s.consumptionRepo.FindByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	responses := make([]ConsumptionResponse, len(records))
	for i := range records {
		responses[i] = ToConsumptionResponse(&records[i])
	}
	return responses, nil
}

// ConsumptionsByOrder returns the consumption records booked against a production order
func (s *LotService) ConsumptionsByOrder(ctx context.Context, orderID uuid.UUID) ([]ConsumptionResponse, error) {
	records, err := s.consumptionRepo.FindByProductionOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]ConsumptionResponse, len(records))
	for i := range records {
		responses[i] = ToConsumptionResponse(&records[i])
	}
	return responses, nil
}

// ExpiringSoon lists in-stock lots expiring between today and today + days, soonest first
func (s *LotService) ExpiringSoon(ctx context.Context, days int) ([]LotResponse, error) {
	if days < 0 {
		return nil, shared.InvalidInput("days cannot be negative")
	}
	lots, err := s.lotRepo.FindInStock(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := material.DateOf(now)
	limit := today.AddDate(0, 0, days)

	expiring := make([]material.MaterialLot, 0)
	for _, lot := range lots {
		if lot.ExpiryDate == nil || lot.Status.IsTerminal() || !lot.QuantityCurrent.IsPositive() {
			continue
		}
		expiry := material.DateOf(*lot.ExpiryDate)
		if expiry.Before(today) || expiry.After(limit) {
			continue
		}
		expiring = append(expiring, lot)
	}
	material.SortFIFO(expiring)
	return ToLotResponses(expiring, now), nil
}

// QualitySummary aggregates quality verdicts of lots received in the last 30 days
func (s *LotService) QualitySummary(ctx context.Context) (*QualitySummaryResponse, error) {
	now := s.now()
	since := material.DateOf(now).AddDate(0, 0, -QualitySummaryPeriodDays)
	lots, err := s.lotRepo.FindReceivedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	resp := &QualitySummaryResponse{
		PeriodDays:       QualitySummaryPeriodDays,
		TotalLots:        len(lots),
		PassRate:         decimal.Zero,
		FailingSuppliers: make([]SupplierFailureCount, 0),
	}
	failures := make(map[uuid.UUID]int)
	for _, lot := range lots {
		switch {
		case lot.QualityTestPassed == nil:
			resp.Pending++
		case *lot.QualityTestPassed:
			resp.Passed++
		default:
			resp.Failed++
			failures[lot.SupplierID]++
		}
	}
	if resp.TotalLots > 0 {
		resp.PassRate = decimal.NewFromInt(int64(resp.Passed)).
			Div(decimal.NewFromInt(int64(resp.TotalLots))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	if len(failures) == 0 {
		return resp, nil
	}

	ids := make([]uuid.UUID, 0, len(failures))
	for id := range failures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if failures[ids[i]] != failures[ids[j]] {
			return failures[ids[i]] > failures[ids[j]]
		}
		return ids[i].String() < ids[j].String()
	})
	if len(ids) > FailingSupplierLimit {
		ids = ids[:FailingSupplierLimit]
	}
	suppliers, err := s.supplierRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]SupplierSummary, len(suppliers))
	for _, sup := range suppliers {
		names[sup.ID] = SupplierSummary{ID: sup.ID, Code: sup.Code, Name: sup.Name}
	}
	for _, id := range ids {
		summary, ok := names[id]
		if !ok {
			summary = SupplierSummary{ID: id}
		}
		resp.FailingSuppliers = append(resp.FailingSuppliers, SupplierFailureCount{Supplier: summary, Failures: failures[id]})
	}
	return resp, nil
}

// MaterialInventory returns the available stock position of a material
func (s *LotService) MaterialInventory(ctx context.Context, materialID uuid.UUID) (*MaterialInventoryResponse, error) {
	mat, err := s.findMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	lots, err := s.lotRepo.FindByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	available := material.AvailableLots(lots, now)
	limit := material.DateOf(now).AddDate(0, 0, InventoryExpiryWindowDays)

	expiring := make([]material.MaterialLot, 0)
	value := decimal.Zero
	for _, lot := range available {
		value = value.Add(lot.GetCurrentValue())
		if lot.ExpiryDate != nil && !material.DateOf(*lot.ExpiryDate).After(limit) {
			expiring = append(expiring, lot)
		}
	}

	return &MaterialInventoryResponse{
		Material:          MaterialSummary{ID: mat.ID, Code: mat.Code, Name: mat.Name, Unit: mat.Unit},
		TotalQuantity:     material.TotalQuantity(available),
		AvailableLotCount: len(available),
		TotalValue:        value,
		ExpiringWithin30:  ToLotResponses(expiring, now),
		AvailableLots:     ToLotResponses(available, now),
	}, nil
}

// LowStock lists active materials whose available quantity is below threshold.
// A zero threshold falls back to DefaultLowStockThreshold.
func (s *LotService) LowStock(ctx context.Context, threshold decimal.Decimal) ([]LowStockItem, error) {
	if threshold.IsNegative() {
		return nil, shared.InvalidInput("threshold cannot be negative")
	}
	if threshold.IsZero() {
		threshold = DefaultLowStockThreshold
	}
	materials, err := s.materialRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	lots, err := s.lotRepo.FindInStock(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	byMaterial := make(map[uuid.UUID][]material.MaterialLot)
	for _, lot := range lots {
		byMaterial[lot.MaterialID] = append(byMaterial[lot.MaterialID], lot)
	}

	items := make([]LowStockItem, 0)
	for _, mat := range materials {
		qty := availableQuantity(byMaterial[mat.ID], now)
		if qty.LessThan(threshold) {
			items = append(items, LowStockItem{
				Material:          MaterialSummary{ID: mat.ID, Code: mat.Code, Name: mat.Name, Unit: mat.Unit},
				AvailableQuantity: qty,
				Threshold:         threshold,
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AvailableQuantity.LessThan(items[j].AvailableQuantity)
	})
	return items, nil
}
