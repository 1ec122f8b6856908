package costing

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WarnBOMMissing is attached to reports of products without an active BOM
const WarnBOMMissing = "bill of materials is not configured"

// ProductRef identifies the costed product
type ProductRef struct {
	ID      uuid.UUID
	Code    string
	Name    string
	Version string
}

// MaterialRef identifies a costed material
type MaterialRef struct {
	ID       uuid.UUID
	Code     string
	Name     string
	Category string
	Unit     string
}

// CostLine is one active BOM line together with the lot snapshot of its material
type CostLine struct {
	Material        MaterialRef
	QuantityPerUnit decimal.Decimal
	Unit            string
	Lots            []material.MaterialLot
}

// MaterialCost is the priced breakdown of one BOM line
type MaterialCost struct {
	Material         MaterialRef
	Unit             string
	QuantityPerUnit  decimal.Decimal
	RequiredQuantity decimal.Decimal
	UnitPrice        decimal.Decimal
	TotalCost        decimal.Decimal
	PriceMethod      PriceMethod
	LotInfo          *LotInfo
	Warnings         []string
}

// CostReport is the derived unit cost of a product for a production quantity.
// Values are kept at full precision.
type CostReport struct {
	Product            ProductRef
	ProductionQuantity decimal.Decimal
	UnitCost           decimal.Decimal
	TotalCost          decimal.Decimal
	CalculationMethod  PriceMethod
	BOMMissing         bool
	Warnings           []string
	MaterialCosts      []MaterialCost
	CalculatedAt       time.Time
}

// HasWarnings returns true when any warning was collected
func (r *CostReport) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// CostAggregator turns BOM lines into a cost report
type CostAggregator struct {
	resolver *PricingResolver
}

// NewCostAggregator creates an aggregator backed by resolver
func NewCostAggregator(resolver *PricingResolver) *CostAggregator {
	if resolver == nil {
		resolver = NewPricingResolver()
	}
	return &CostAggregator{resolver: resolver}
}

// Resolver returns the underlying pricing resolver
func (a *CostAggregator) Resolver() *PricingResolver {
	return a.resolver
}

// Calculate prices every line and sums the result. A product without lines
// yields a bomMissing report rather than an error.
func (a *CostAggregator) Calculate(product ProductRef, lines []CostLine, productionQuantity decimal.Decimal, now time.Time) (*CostReport, error) {
	if !productionQuantity.IsPositive() {
		return nil, shared.InvalidInput("production quantity must be greater than zero")
	}

	report := &CostReport{
		Product:            product,
		ProductionQuantity: productionQuantity,
		UnitCost:           decimal.Zero,
		TotalCost:          decimal.Zero,
		CalculationMethod:  MethodCurrentLot,
		Warnings:           make([]string, 0),
		MaterialCosts:      make([]MaterialCost, 0, len(lines)),
		CalculatedAt:       now,
	}

	if len(lines) == 0 {
		report.BOMMissing = true
		report.Warnings = append(report.Warnings, WarnBOMMissing)
		return report, nil
	}

	total := decimal.Zero
	for _, line := range lines {
		required := line.QuantityPerUnit.Mul(productionQuantity)
		quote := a.resolver.Resolve(line.Lots, required, now)
		lineCost := required.Mul(quote.UnitPrice)

		report.MaterialCosts = append(report.MaterialCosts, MaterialCost{
			Material:         line.Material,
			Unit:             line.Unit,
			QuantityPerUnit:  line.QuantityPerUnit,
			RequiredQuantity: required,
			UnitPrice:        quote.UnitPrice,
			TotalCost:        lineCost,
			PriceMethod:      quote.Method,
			LotInfo:          quote.LotInfo,
			Warnings:         quote.Warnings,
		})
		total = total.Add(lineCost)
		report.CalculationMethod = Weakest(report.CalculationMethod, quote.Method)
		for _, w := range quote.Warnings {
			report.Warnings = append(report.Warnings, line.Material.Name+": "+w)
		}
	}

	report.TotalCost = total
	report.UnitCost = total.Div(productionQuantity)
	return report, nil
}
