package shared

import "github.com/shopspring/decimal"

// Stored precision of quantities and prices
const (
	QuantityScale int32 = 3
	PriceScale    int32 = 2
)

// FitsScale reports whether d has at most places significant decimal places.
// Trailing zeros do not count, so 1.500 fits a scale of 1.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// CheckQuantity rejects a non-positive quantity or one with more than QuantityScale places
func CheckQuantity(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return InvalidInput("%s must be positive", field)
	}
	if !FitsScale(d, QuantityScale) {
		return InvalidInput("%s cannot have more than %d decimal places", field, QuantityScale)
	}
	return nil
}

// CheckPrice rejects a non-positive price or one with more than PriceScale places
func CheckPrice(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return InvalidInput("%s must be positive", field)
	}
	if !FitsScale(d, PriceScale) {
		return InvalidInput("%s cannot have more than %d decimal places", field, PriceScale)
	}
	return nil
}
