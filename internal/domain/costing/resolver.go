package costing

import (
	"fmt"
	"time"

	"github.com/haccp/backend/internal/domain/material"
	"github.com/shopspring/decimal"
)

// DefaultRecentWindowDays is the look-back window of the recent_average tier
const DefaultRecentWindowDays = 30

// Warning texts attached to degraded quotes
const (
	WarnRecentAverage     = "no current stock, priced by 30-day average"
	WarnHistoricalAverage = "no recent receipts, priced by historical average"
	WarnNoData            = "no price data available"
)

// LotInfo summarises the available stock behind a current_lot quote
type LotInfo struct {
	AvailableLots          int             `json:"available_lots"`
	TotalAvailableQuantity decimal.Decimal `json:"total_available_quantity"`
}

// PriceQuote is the tagged result of pricing one material
type PriceQuote struct {
	UnitPrice  decimal.Decimal
	Method     PriceMethod
	LotInfo    *LotInfo
	Selections []material.LotSelection
	Warnings   []string
}

// PricingResolver prices a material from a snapshot of its lots using the
// fallback order current_lot, recent_average, historical_average, no_data.
// It never mutates the lots it reads.
type PricingResolver struct {
	recentWindowDays int
}

// ResolverOption configures a PricingResolver
type ResolverOption func(*PricingResolver)

// WithRecentWindowDays overrides the recent_average look-back window
func WithRecentWindowDays(days int) ResolverOption {
	return func(r *PricingResolver) {
		if days > 0 {
			r.recentWindowDays = days
		}
	}
}

// NewPricingResolver creates a resolver
func NewPricingResolver(opts ...ResolverOption) *PricingResolver {
	r := &PricingResolver{recentWindowDays: DefaultRecentWindowDays}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecentWindowDays returns the configured look-back window
func (r *PricingResolver) RecentWindowDays() int {
	return r.recentWindowDays
}

// RecentWindowStart is the first calendar day of the recent_average window.
// A lot received exactly recentWindowDays days before now is inside it.
func (r *PricingResolver) RecentWindowStart(now time.Time) time.Time {
	return material.DateOf(now).AddDate(0, 0, -r.recentWindowDays)
}

// Resolve prices requiredQuantity of the material the lots belong to.
// lots must be every lot ever received for that material.
func (r *PricingResolver) Resolve(lots []material.MaterialLot, requiredQuantity decimal.Decimal, now time.Time) PriceQuote {
	if available := material.AvailableLots(lots, now); len(available) > 0 {
		return r.currentLotQuote(available, requiredQuantity)
	}

	since := r.RecentWindowStart(now)
	recent := make([]material.MaterialLot, 0)
	for _, lot := range lots {
		if !material.DateOf(lot.ReceivedDate).Before(since) {
			recent = append(recent, lot)
		}
	}
	if len(recent) > 0 {
		return PriceQuote{
			UnitPrice: averageUnitPrice(recent),
			Method:    MethodRecentAverage,
			Warnings:  []string{WarnRecentAverage},
		}
	}

	if len(lots) > 0 {
		return PriceQuote{
			UnitPrice: averageUnitPrice(lots),
			Method:    MethodHistoricalAverage,
			Warnings:  []string{WarnHistoricalAverage},
		}
	}

	return PriceQuote{
		UnitPrice: decimal.Zero,
		Method:    MethodNoData,
		Warnings:  []string{WarnNoData},
	}
}

// currentLotQuote walks available lots in FIFO order and returns the
// quantity-weighted price of what was taken.
func (r *PricingResolver) currentLotQuote(available []material.MaterialLot, requiredQuantity decimal.Decimal) PriceQuote {
	totalAvailable := material.TotalQuantity(available)
	selection := material.SelectFIFO(available, requiredQuantity)

	quote := PriceQuote{
		Method: MethodCurrentLot,
		LotInfo: &LotInfo{
			AvailableLots:          len(available),
			TotalAvailableQuantity: totalAvailable,
		},
		Selections: selection.Selections,
		Warnings:   make([]string, 0),
	}

	if selection.TotalQty.IsPositive() {
		quote.UnitPrice = selection.TotalCost.Div(selection.TotalQty)
	} else {
		quote.UnitPrice = available[0].UnitPrice
	}

	if !selection.IsFulfilled() {
		quote.Warnings = append(quote.Warnings, fmt.Sprintf(
			"insufficient current stock: required %s, available %s",
			requiredQuantity.String(), totalAvailable.String()))
	}
	return quote
}

// averageUnitPrice is the unweighted mean of lot prices
func averageUnitPrice(lots []material.MaterialLot) decimal.Decimal {
	if len(lots) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, lot := range lots {
		sum = sum.Add(lot.UnitPrice)
	}
	return sum.Div(decimal.NewFromInt(int64(len(lots))))
}
