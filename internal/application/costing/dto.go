package costing

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/costing"
	"github.com/shopspring/decimal"
)

// MethodError tags a summary row whose report could not be computed
const MethodError = "error"

// CostSummaryRow is one product line of the bulk cost summary
type CostSummaryRow struct {
	ProductID         uuid.UUID
	ProductCode       string
	ProductName       string
	UnitCost          decimal.Decimal
	CalculationMethod string
	BOMMissing        bool
	HasWarnings       bool
	MaterialCount     int
	Error             string
}

// InventorySnapshot describes the priceable stock of a material
type InventorySnapshot struct {
	AvailableLots int
	TotalQuantity decimal.Decimal
	NextLotNumber string
	NextLotPrice  *decimal.Decimal
}

// MaterialPriceInfo is the pricing dossier of a single material
type MaterialPriceInfo struct {
	Material         costing.MaterialRef
	Inventory        InventorySnapshot
	RecentWindowDays int
	Recent           costing.PriceStats
	AllTime          costing.PriceStats
	UnitPrice        decimal.Decimal
	PriceMethod      costing.PriceMethod
	Warnings         []string
	CalculatedAt     time.Time
}

// MaterialRequirement is the demand one BOM line places on stock
type MaterialRequirement struct {
	Material          costing.MaterialRef
	Unit              string
	QuantityPerUnit   decimal.Decimal
	RequiredQuantity  decimal.Decimal
	AvailableQuantity decimal.Decimal
	Shortage          decimal.Decimal
}

// IsSufficient returns true when available stock covers the requirement
func (r MaterialRequirement) IsSufficient() bool {
	return !r.Shortage.IsPositive()
}

// RequirementsReport lists the materials needed for a production quantity
type RequirementsReport struct {
	Product            costing.ProductRef
	ProductionQuantity decimal.Decimal
	BOMMissing         bool
	Requirements       []MaterialRequirement
}

// CanProduce returns true when every line is covered by available stock
func (r *RequirementsReport) CanProduce() bool {
	if r.BOMMissing {
		return false
	}
	for _, req := range r.Requirements {
		if !req.IsSufficient() {
			return false
		}
	}
	return true
}

// ExportResult is a rendered cost summary, either inline or archived
type ExportResult struct {
	FileName    string
	ContentType string
	RowCount    int
	Content     []byte
	DownloadURL string
	ExpiresAt   *time.Time
}

// IsArchived returns true when the workbook was uploaded instead of returned inline
func (r *ExportResult) IsArchived() bool {
	return r.DownloadURL != ""
}
