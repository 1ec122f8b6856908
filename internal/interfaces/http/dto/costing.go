package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	costingapp "github.com/haccp/backend/internal/application/costing"
	"github.com/haccp/backend/internal/domain/costing"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CostQuery selects the production quantity of a cost report
type CostQuery struct {
	Quantity string `form:"quantity"`
}

// ProductionQuantity parses the quantity, defaulting to one unit
func (q CostQuery) ProductionQuantity() (decimal.Decimal, error) {
	if strings.TrimSpace(q.Quantity) == "" {
		return decimal.NewFromInt(1), nil
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(q.Quantity))
	if err != nil {
		return decimal.Zero, shared.InvalidInput("invalid quantity %q", q.Quantity)
	}
	if !qty.IsPositive() {
		return decimal.Zero, shared.InvalidInput("production quantity must be greater than zero")
	}
	return qty, nil
}

// ProductRefDTO identifies the costed product
type ProductRefDTO struct {
	ID      uuid.UUID `json:"id"`
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Version string    `json:"version"`
}

// MaterialRefDTO identifies a costed material
type MaterialRefDTO struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Unit     string    `json:"unit"`
}

// LotInfoDTO summarizes the stock a tier-1 price was taken from
type LotInfoDTO struct {
	AvailableLots          int             `json:"available_lots"`
	TotalAvailableQuantity decimal.Decimal `json:"total_available_quantity"`
}

// MaterialCostDTO is one priced BOM line
type MaterialCostDTO struct {
	Material         MaterialRefDTO  `json:"material"`
	Unit             string          `json:"unit"`
	QuantityPerUnit  decimal.Decimal `json:"quantity_per_unit"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	PriceMethod      string          `json:"price_method"`
	LotInfo          *LotInfoDTO     `json:"lot_info,omitempty"`
	Warnings         []string        `json:"warnings"`
}

// CostReportDTO is the rounded cost report
type CostReportDTO struct {
	Product            ProductRefDTO     `json:"product"`
	ProductionQuantity decimal.Decimal   `json:"production_quantity"`
	UnitCost           decimal.Decimal   `json:"unit_cost"`
	TotalCost          decimal.Decimal   `json:"total_cost"`
	CalculationMethod  string            `json:"calculation_method"`
	BOMMissing         bool              `json:"bom_missing"`
	HasWarnings        bool              `json:"has_warnings"`
	Warnings           []string          `json:"warnings"`
	MaterialCosts      []MaterialCostDTO `json:"material_costs"`
	CalculatedAt       time.Time         `json:"calculated_at"`
}

// CostSummaryRowDTO is one product of the cost summary
type CostSummaryRowDTO struct {
	ProductID         uuid.UUID       `json:"product_id"`
	ProductCode       string          `json:"product_code"`
	ProductName       string          `json:"product_name"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	CalculationMethod string          `json:"calculation_method"`
	BOMMissing        bool            `json:"bom_missing"`
	HasWarnings       bool            `json:"has_warnings"`
	MaterialCount     int             `json:"material_count"`
	Error             string          `json:"error,omitempty"`
}

// PriceStatsDTO is min/max/avg over a window
type PriceStatsDTO struct {
	Count int             `json:"count"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
	Avg   decimal.Decimal `json:"avg"`
}

// InventorySnapshotDTO is the priceable stock of a material
type InventorySnapshotDTO struct {
	AvailableLots int              `json:"available_lots"`
	TotalQuantity decimal.Decimal  `json:"total_quantity"`
	NextLotNumber string           `json:"next_lot_number,omitempty"`
	NextLotPrice  *decimal.Decimal `json:"next_lot_price,omitempty"`
}

// MaterialPriceInfoDTO is the pricing dossier of a material
type MaterialPriceInfoDTO struct {
	Material         MaterialRefDTO       `json:"material"`
	Inventory        InventorySnapshotDTO `json:"inventory"`
	RecentWindowDays int                  `json:"recent_window_days"`
	Recent           PriceStatsDTO        `json:"recent"`
	AllTime          PriceStatsDTO        `json:"all_time"`
	UnitPrice        decimal.Decimal      `json:"unit_price"`
	PriceMethod      string               `json:"price_method"`
	Warnings         []string             `json:"warnings"`
	CalculatedAt     time.Time            `json:"calculated_at"`
}

// MaterialRequirementDTO is the demand of one BOM line
type MaterialRequirementDTO struct {
	Material          MaterialRefDTO  `json:"material"`
	Unit              string          `json:"unit"`
	QuantityPerUnit   decimal.Decimal `json:"quantity_per_unit"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	Shortage          decimal.Decimal `json:"shortage"`
	IsSufficient      bool            `json:"is_sufficient"`
}

// RequirementsDTO lists the materials needed for a production quantity
type RequirementsDTO struct {
	Product            ProductRefDTO            `json:"product"`
	ProductionQuantity decimal.Decimal          `json:"production_quantity"`
	BOMMissing         bool                     `json:"bom_missing"`
	CanProduce         bool                     `json:"can_produce"`
	Requirements       []MaterialRequirementDTO `json:"requirements"`
}

// ExportDTO describes an archived export
type ExportDTO struct {
	FileName    string     `json:"file_name"`
	RowCount    int        `json:"row_count"`
	DownloadURL string     `json:"download_url"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// CostPresenter rounds costing values for display. Prices and costs use
// PricePlaces, quantities use QuantityPlaces.
type CostPresenter struct {
	PricePlaces    int32
	QuantityPlaces int32
}

// NewCostPresenter falls back to 2 price and 3 quantity places for negative
// values. Zero rounds to whole numbers.
func NewCostPresenter(pricePlaces, quantityPlaces int32) CostPresenter {
	if pricePlaces < 0 {
		pricePlaces = 2
	}
	if quantityPlaces < 0 {
		quantityPlaces = 3
	}
	return CostPresenter{PricePlaces: pricePlaces, QuantityPlaces: quantityPlaces}
}

func (p CostPresenter) price(d decimal.Decimal) decimal.Decimal { return d.Round(p.PricePlaces) }
func (p CostPresenter) qty(d decimal.Decimal) decimal.Decimal   { return d.Round(p.QuantityPlaces) }

func productRef(r costing.ProductRef) ProductRefDTO {
	return ProductRefDTO{ID: r.ID, Code: r.Code, Name: r.Name, Version: r.Version}
}

func materialRef(r costing.MaterialRef) MaterialRefDTO {
	return MaterialRefDTO{ID: r.ID, Code: r.Code, Name: r.Name, Category: r.Category, Unit: r.Unit}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Report converts a cost report
func (p CostPresenter) Report(r *costing.CostReport) CostReportDTO {
	out := CostReportDTO{
		Product:            productRef(r.Product),
		ProductionQuantity: p.qty(r.ProductionQuantity),
		UnitCost:           p.price(r.UnitCost),
		TotalCost:          p.price(r.TotalCost),
		CalculationMethod:  r.CalculationMethod.String(),
		BOMMissing:         r.BOMMissing,
		HasWarnings:        r.HasWarnings(),
		Warnings:           nonNil(r.Warnings),
		MaterialCosts:      make([]MaterialCostDTO, len(r.MaterialCosts)),
		CalculatedAt:       r.CalculatedAt,
	}
	for i, mc := range r.MaterialCosts {
		line := MaterialCostDTO{
			Material:         materialRef(mc.Material),
			Unit:             mc.Unit,
			QuantityPerUnit:  p.qty(mc.QuantityPerUnit),
			RequiredQuantity: p.qty(mc.RequiredQuantity),
			UnitPrice:        p.price(mc.UnitPrice),
			TotalCost:        p.price(mc.TotalCost),
			PriceMethod:      mc.PriceMethod.String(),
			Warnings:         nonNil(mc.Warnings),
		}
		if mc.LotInfo != nil {
			line.LotInfo = &LotInfoDTO{
				AvailableLots:          mc.LotInfo.AvailableLots,
				TotalAvailableQuantity: p.qty(mc.LotInfo.TotalAvailableQuantity),
			}
		}
		out.MaterialCosts[i] = line
	}
	return out
}

// Summary converts cost summary rows
func (p CostPresenter) Summary(rows []costingapp.CostSummaryRow) []CostSummaryRowDTO {
	out := make([]CostSummaryRowDTO, len(rows))
	for i, r := range rows {
		out[i] = CostSummaryRowDTO{
			ProductID:         r.ProductID,
			ProductCode:       r.ProductCode,
			ProductName:       r.ProductName,
			UnitCost:          p.price(r.UnitCost),
			CalculationMethod: r.CalculationMethod,
			BOMMissing:        r.BOMMissing,
			HasWarnings:       r.HasWarnings,
			MaterialCount:     r.MaterialCount,
			Error:             r.Error,
		}
	}
	return out
}

func (p CostPresenter) stats(s costing.PriceStats) PriceStatsDTO {
	return PriceStatsDTO{Count: s.Count, Min: p.price(s.Min), Max: p.price(s.Max), Avg: p.price(s.Avg)}
}

// PriceInfo converts a material pricing dossier
func (p CostPresenter) PriceInfo(info *costingapp.MaterialPriceInfo) MaterialPriceInfoDTO {
	inv := InventorySnapshotDTO{
		AvailableLots: info.Inventory.AvailableLots,
		TotalQuantity: p.qty(info.Inventory.TotalQuantity),
		NextLotNumber: info.Inventory.NextLotNumber,
	}
	if info.Inventory.NextLotPrice != nil {
		next := p.price(*info.Inventory.NextLotPrice)
		inv.NextLotPrice = &next
	}
	return MaterialPriceInfoDTO{
		Material:         materialRef(info.Material),
		Inventory:        inv,
		RecentWindowDays: info.RecentWindowDays,
		Recent:           p.stats(info.Recent),
		AllTime:          p.stats(info.AllTime),
		UnitPrice:        p.price(info.UnitPrice),
		PriceMethod:      info.PriceMethod.String(),
		Warnings:         nonNil(info.Warnings),
		CalculatedAt:     info.CalculatedAt,
	}
}

// Requirements converts a requirements report
func (p CostPresenter) Requirements(r *costingapp.RequirementsReport) RequirementsDTO {
	out := RequirementsDTO{
		Product:            productRef(r.Product),
		ProductionQuantity: p.qty(r.ProductionQuantity),
		BOMMissing:         r.BOMMissing,
		CanProduce:         r.CanProduce(),
		Requirements:       make([]MaterialRequirementDTO, len(r.Requirements)),
	}
	for i, req := range r.Requirements {
		out.Requirements[i] = MaterialRequirementDTO{
			Material:          materialRef(req.Material),
			Unit:              req.Unit,
			QuantityPerUnit:   p.qty(req.QuantityPerUnit),
			RequiredQuantity:  p.qty(req.RequiredQuantity),
			AvailableQuantity: p.qty(req.AvailableQuantity),
			Shortage:          p.qty(req.Shortage),
			IsSufficient:      req.IsSufficient(),
		}
	}
	return out
}
