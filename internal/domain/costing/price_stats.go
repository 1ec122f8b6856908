package costing

import (
	"time"

	"github.com/haccp/backend/internal/domain/material"
	"github.com/shopspring/decimal"
)

// PriceStats summarises unit prices over a set of lots
type PriceStats struct {
	Count int
	Min   decimal.Decimal
	Max   decimal.Decimal
	Avg   decimal.Decimal
}

// ComputePriceStats returns min, max and unweighted average unit price.
// Lots received before since are skipped when since is non-zero.
func ComputePriceStats(lots []material.MaterialLot, since time.Time) PriceStats {
	stats := PriceStats{Min: decimal.Zero, Max: decimal.Zero, Avg: decimal.Zero}
	sum := decimal.Zero
	for _, lot := range lots {
		if !since.IsZero() && material.DateOf(lot.ReceivedDate).Before(since) {
			continue
		}
		if stats.Count == 0 {
			stats.Min = lot.UnitPrice
			stats.Max = lot.UnitPrice
		} else {
			stats.Min = decimal.Min(stats.Min, lot.UnitPrice)
			stats.Max = decimal.Max(stats.Max, lot.UnitPrice)
		}
		sum = sum.Add(lot.UnitPrice)
		stats.Count++
	}
	if stats.Count > 0 {
		stats.Avg = sum.Div(decimal.NewFromInt(int64(stats.Count)))
	}
	return stats
}
