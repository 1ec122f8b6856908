package costing

import (
	"fmt"
)

// PriceMethod tags which pricing tier produced a unit price.
// Higher values are weaker: a report is only as confident as its weakest line.
type PriceMethod int

const (
	MethodCurrentLot PriceMethod = iota
	MethodRecentAverage
	MethodHistoricalAverage
	MethodNoData
)

var priceMethodNames = map[PriceMethod]string{
	MethodCurrentLot:        "current_lot",
	MethodRecentAverage:     "recent_average",
	MethodHistoricalAverage: "historical_average",
	MethodNoData:            "no_data",
}

// String returns the wire tag of the method
func (m PriceMethod) String() string {
	if name, ok := priceMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("PriceMethod(%d)", int(m))
}

// Rank returns the precedence rank, 0 being the most confident
func (m PriceMethod) Rank() int {
	return int(m)
}

// IsFallback returns true for every tier other than current_lot
func (m PriceMethod) IsFallback() bool {
	return m != MethodCurrentLot
}

// MarshalText encodes the method as its tag
func (m PriceMethod) MarshalText() ([]byte, error) {
	if _, ok := priceMethodNames[m]; !ok {
		return nil, fmt.Errorf("unknown price method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a method tag
func (m *PriceMethod) UnmarshalText(text []byte) error {
	parsed, err := ParsePriceMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParsePriceMethod parses a method tag
func ParsePriceMethod(s string) (PriceMethod, error) {
	for method, name := range priceMethodNames {
		if name == s {
			return method, nil
		}
	}
	return MethodNoData, fmt.Errorf("unknown price method %q", s)
}

// Weakest returns the lower-confidence of two methods
func Weakest(a, b PriceMethod) PriceMethod {
	if b > a {
		return b
	}
	return a
}
