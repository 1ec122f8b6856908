package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/shopspring/decimal"
)

// LotResponse represents a material lot in API responses
type LotResponse struct {
	ID                   uuid.UUID        `json:"id"`
	LotNumber            string           `json:"lot_number"`
	MaterialID           uuid.UUID        `json:"material_id"`
	SupplierID           uuid.UUID        `json:"supplier_id"`
	ReceivedDate         time.Time        `json:"received_date"`
	ExpiryDate           *time.Time       `json:"expiry_date"`
	QuantityReceived     decimal.Decimal  `json:"quantity_received"`
	QuantityCurrent      decimal.Decimal  `json:"quantity_current"`
	UnitPrice            decimal.Decimal  `json:"unit_price"`
	CurrentValue         decimal.Decimal  `json:"current_value"`
	Status               string           `json:"status"`
	QualityTestPassed    *bool            `json:"quality_test_passed"`
	QualityTestDate      *time.Time       `json:"quality_test_date"`
	QualityTestNotes     string           `json:"quality_test_notes"`
	StorageLocation      string           `json:"storage_location"`
	TemperatureAtReceipt *decimal.Decimal `json:"temperature_at_receipt"`
	RetireReason         string           `json:"retire_reason,omitempty"`
	IsAvailable          bool             `json:"is_available"`
	DaysUntilExpiry      *int             `json:"days_until_expiry"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	Version              int              `json:"version"`
}

// ToLotResponse converts a domain lot to a response evaluated on the given day
func ToLotResponse(l *material.MaterialLot, now time.Time) LotResponse {
	resp := LotResponse{
		ID:                   l.ID,
		LotNumber:            l.LotNumber,
		MaterialID:           l.MaterialID,
		SupplierID:           l.SupplierID,
		ReceivedDate:         l.ReceivedDate,
		ExpiryDate:           l.ExpiryDate,
		QuantityReceived:     l.QuantityReceived,
		QuantityCurrent:      l.QuantityCurrent,
		UnitPrice:            l.UnitPrice,
		CurrentValue:         l.GetCurrentValue(),
		Status:               string(l.Status),
		QualityTestPassed:    l.QualityTestPassed,
		QualityTestDate:      l.QualityTestDate,
		QualityTestNotes:     l.QualityTestNotes,
		StorageLocation:      l.StorageLocation,
		TemperatureAtReceipt: l.TemperatureAtReceipt,
		RetireReason:         l.RetireReason,
		IsAvailable:          l.IsAvailable(now),
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
		Version:              l.Version,
	}
	if l.ExpiryDate != nil {
		days := l.DaysUntilExpiry(now)
		resp.DaysUntilExpiry = &days
	}
	return resp
}

// ToLotResponses converts a slice of lots
func ToLotResponses(lots []material.MaterialLot, now time.Time) []LotResponse {
	responses := make([]LotResponse, len(lots))
	for i := range lots {
		responses[i] = ToLotResponse(&lots[i], now)
	}
	return responses
}

// ReceiveLotRequest represents a goods receipt
type ReceiveLotRequest struct {
	MaterialID           uuid.UUID
	SupplierID           uuid.UUID
	LotNumber            string
	QuantityReceived     decimal.Decimal
	UnitPrice            decimal.Decimal
	ReceivedDate         time.Time
	ExpiryDate           *time.Time
	QualityTestPassed    *bool
	QualityTestNotes     string
	StorageLocation      string
	TemperatureAtReceipt *decimal.Decimal
	CreatedBy            *uuid.UUID
}

// QualityTestRequest records a quality verdict
type QualityTestRequest struct {
	Passed bool
	Notes  string
}

// ConsumeLotRequest consumes quantity from a single lot
type ConsumeLotRequest struct {
	Quantity          decimal.Decimal
	ProductionOrderID *uuid.UUID
	Reference         string
	ConsumedBy        *uuid.UUID
}

// RetireLotRequest retires a lot as expired or rejected
type RetireLotRequest struct {
	Status string
	Reason string
}

// ConsumeFIFORequest consumes a material across its available lots
type ConsumeFIFORequest struct {
	MaterialID        uuid.UUID
	Quantity          decimal.Decimal
	ProductionOrderID *uuid.UUID
	Reference         string
	ConsumedBy        *uuid.UUID
}

// LotListFilter represents filter options for the lot list
type LotListFilter struct {
	MaterialID    *uuid.UUID
	SupplierID    *uuid.UUID
	Status        string
	QualityPassed *bool
	Search        string
	Page          int
	PageSize      int
	OrderBy       string
	OrderDir      string
}

// ConsumptionResponse is one consumption record
type ConsumptionResponse struct {
	ID                uuid.UUID       `json:"id"`
	LotID             uuid.UUID       `json:"lot_id"`
	MaterialID        uuid.UUID       `json:"material_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	ProductionOrderID *uuid.UUID      `json:"production_order_id"`
	Reference         string          `json:"reference"`
	ConsumedAt        time.Time       `json:"consumed_at"`
	ConsumedBy        *uuid.UUID      `json:"consumed_by"`
}

// ToConsumptionResponse converts a consumption record
func ToConsumptionResponse(c *material.LotConsumption) ConsumptionResponse {
	return ConsumptionResponse{
		ID:                c.ID,
		LotID:             c.LotID,
		MaterialID:        c.MaterialID,
		Quantity:          c.Quantity,
		RemainingQuantity: c.RemainingQuantity,
		ProductionOrderID: c.ProductionOrderID,
		Reference:         c.Reference,
		ConsumedAt:        c.ConsumedAt,
		ConsumedBy:        c.ConsumedBy,
	}
}

// FIFOConsumptionResponse summarizes a FIFO consumption
type FIFOConsumptionResponse struct {
	MaterialID    uuid.UUID             `json:"material_id"`
	TotalQuantity decimal.Decimal       `json:"total_quantity"`
	TotalCost     decimal.Decimal       `json:"total_cost"`
	Consumptions  []ConsumptionResponse `json:"consumptions"`
}

// MaterialSummary identifies a material inside ledger reports
type MaterialSummary struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
	Unit string    `json:"unit"`
}

// SupplierSummary identifies a supplier inside ledger reports
type SupplierSummary struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// QualityControlInfo is the quality block of a traceability report
type QualityControlInfo struct {
	TestPassed           *bool            `json:"test_passed"`
	TestDate             *time.Time       `json:"test_date"`
	TestNotes            string           `json:"test_notes"`
	TemperatureAtReceipt *decimal.Decimal `json:"temperature_at_receipt"`
	StorageLocation      string           `json:"storage_location"`
}

// UsageHistory is the quantity block of a traceability report
type UsageHistory struct {
	OriginalQuantity decimal.Decimal `json:"original_quantity"`
	CurrentQuantity  decimal.Decimal `json:"current_quantity"`
	ConsumedQuantity decimal.Decimal `json:"consumed_quantity"`
	UsageRate        decimal.Decimal `json:"usage_rate"`
}

// TraceabilityResponse traces a lot from receipt to consumption
type TraceabilityResponse struct {
	Lot            LotResponse           `json:"lot"`
	Material       MaterialSummary       `json:"material"`
	Supplier       SupplierSummary       `json:"supplier"`
	QualityControl QualityControlInfo    `json:"quality_control"`
	Usage          UsageHistory          `json:"usage"`
	Consumptions   []ConsumptionResponse `json:"consumptions"`
}

// SupplierFailureCount counts failed quality tests of one supplier
type SupplierFailureCount struct {
	Supplier SupplierSummary `json:"supplier"`
	Failures int             `json:"failures"`
}

// QualitySummaryResponse aggregates quality verdicts of recent receipts
type QualitySummaryResponse struct {
	PeriodDays       int                    `json:"period_days"`
	TotalLots        int                    `json:"total_lots"`
	Passed           int                    `json:"passed"`
	Failed           int                    `json:"failed"`
	Pending          int                    `json:"pending"`
	PassRate         decimal.Decimal        `json:"pass_rate"`
	FailingSuppliers []SupplierFailureCount `json:"failing_suppliers"`
}

// MaterialInventoryResponse is the stock position of one material
type MaterialInventoryResponse struct {
	Material          MaterialSummary `json:"material"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	AvailableLotCount int             `json:"available_lot_count"`
	TotalValue        decimal.Decimal `json:"total_value"`
	ExpiringWithin30  []LotResponse   `json:"expiring_within_30_days"`
	AvailableLots     []LotResponse   `json:"available_lots"`
}

// LowStockItem is a material whose available quantity is below the threshold
type LowStockItem struct {
	Material          MaterialSummary `json:"material"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	Threshold         decimal.Decimal `json:"threshold"`
}
