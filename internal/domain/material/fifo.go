package material

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotSelection is the quantity taken from a single lot
type LotSelection struct {
	LotID     uuid.UUID
	LotNumber string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// LotSelectionResult is the outcome of walking lots in FIFO order
type LotSelectionResult struct {
	Selections   []LotSelection
	TotalQty     decimal.Decimal
	TotalCost    decimal.Decimal
	ShortfallQty decimal.Decimal
}

// IsFulfilled returns true when the full quantity could be covered
func (r LotSelectionResult) IsFulfilled() bool {
	return r.ShortfallQty.IsZero()
}

// SortFIFO orders lots by expiry ascending with unlimited shelf life last.
// Ties fall back to received date, then lot number.
func SortFIFO(lots []MaterialLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		ei, ej := lots[i].ExpiryDate, lots[j].ExpiryDate
		switch {
		case ei == nil && ej != nil:
			return false
		case ei != nil && ej == nil:
			return true
		case ei != nil && ej != nil && !ei.Equal(*ej):
			return ei.Before(*ej)
		}
		if !lots[i].ReceivedDate.Equal(lots[j].ReceivedDate) {
			return lots[i].ReceivedDate.Before(lots[j].ReceivedDate)
		}
		return lots[i].LotNumber < lots[j].LotNumber
	})
}

// AvailableLots filters lots by the availability rule and returns them in FIFO order.
// The input slice is not modified.
func AvailableLots(lots []MaterialLot, now time.Time) []MaterialLot {
	available := make([]MaterialLot, 0, len(lots))
	for _, lot := range lots {
		if lot.IsAvailable(now) {
			available = append(available, lot)
		}
	}
	SortFIFO(available)
	return available
}

// SelectFIFO takes quantity from the given lots in order until the
// requirement is covered. Lots must already be in FIFO order.
func SelectFIFO(lots []MaterialLot, quantity decimal.Decimal) LotSelectionResult {
	result := LotSelectionResult{
		Selections: make([]LotSelection, 0),
		TotalQty:   decimal.Zero,
		TotalCost:  decimal.Zero,
	}
	remaining := quantity
	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, lot.QuantityCurrent)
		if !take.IsPositive() {
			continue
		}
		result.Selections = append(result.Selections, LotSelection{
			LotID:     lot.ID,
			LotNumber: lot.LotNumber,
			Quantity:  take,
			UnitPrice: lot.UnitPrice,
		})
		result.TotalQty = result.TotalQty.Add(take)
		result.TotalCost = result.TotalCost.Add(take.Mul(lot.UnitPrice))
		remaining = remaining.Sub(take)
	}
	if remaining.IsPositive() {
		result.ShortfallQty = remaining
	} else {
		result.ShortfallQty = decimal.Zero
	}
	return result
}

// TotalQuantity sums the current quantity of the given lots
func TotalQuantity(lots []MaterialLot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.QuantityCurrent)
	}
	return total
}
