package costing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRef() ProductRef {
	return ProductRef{ID: uuid.New(), Code: "P-1", Name: "Dumplings", Version: "1.0"}
}

func line(name string, perUnit float64, lots ...material.MaterialLot) CostLine {
	return CostLine{
		Material:        MaterialRef{ID: uuid.New(), Code: name, Name: name, Unit: "kg"},
		QuantityPerUnit: decimal.NewFromFloat(perUnit),
		Unit:            "kg",
		Lots:            lots,
	}
}

func TestCostAggregator_Calculate(t *testing.T) {
	agg := NewCostAggregator(nil)

	t.Run("single current lot line", func(t *testing.T) {
		lines := []CostLine{line("flour", 1,
			makeLot("A", 5, 2000, expiresOn(2026, 11, 1)),
			makeLot("B", 5, 2200, expiresOn(2026, 12, 1)),
		)}
		report, err := agg.Calculate(productRef(), lines, decimal.NewFromInt(10), now)
		require.NoError(t, err)

		assert.False(t, report.BOMMissing)
		assert.Equal(t, MethodCurrentLot, report.CalculationMethod)
		assert.True(t, report.TotalCost.Equal(decimal.NewFromInt(21000)))
		assert.True(t, report.UnitCost.Equal(decimal.NewFromInt(2100)))
		require.Len(t, report.MaterialCosts, 1)
		assert.True(t, report.MaterialCosts[0].RequiredQuantity.Equal(decimal.NewFromInt(10)))
		assert.False(t, report.HasWarnings())
	})

	t.Run("weakest tier wins and warnings are collected", func(t *testing.T) {
		lines := []CostLine{
			line("flour", 0.5, makeLot("A", 100, 1000)),
			line("salt", 0.01, makeLot("S", 10, 300, untested(), receivedDaysAgo(2))),
			line("saffron", 0.001),
		}
		report, err := agg.Calculate(productRef(), lines, decimal.NewFromInt(100), now)
		require.NoError(t, err)

		assert.Equal(t, MethodNoData, report.CalculationMethod)
		assert.Len(t, report.Warnings, 2)
		assert.Contains(t, report.Warnings[0], "salt")
		assert.Contains(t, report.Warnings[1], "saffron")
		assert.Equal(t, MethodNoData, report.MaterialCosts[2].PriceMethod)
		assert.True(t, report.MaterialCosts[2].TotalCost.IsZero())
		// 50kg @1000 + 1kg @300
		assert.True(t, report.TotalCost.Equal(decimal.NewFromInt(50300)))
	})

	t.Run("unit cost times quantity equals total", func(t *testing.T) {
		lines := []CostLine{
			line("a", 0.333, makeLot("A", 1000, 1234.567)),
			line("b", 1.7, makeLot("B", 2, 99.99), makeLot("C", 1000, 101.01, expiresOn(2027, 1, 1))),
		}
		qty := decimal.NewFromInt(7)
		report, err := agg.Calculate(productRef(), lines, qty, now)
		require.NoError(t, err)
		diff := report.UnitCost.Mul(qty).Sub(report.TotalCost).Abs()
		assert.True(t, diff.LessThan(decimal.New(1, -6)), "diff %s", diff)
	})

	t.Run("missing BOM is not an error", func(t *testing.T) {
		report, err := agg.Calculate(productRef(), nil, decimal.NewFromInt(3), now)
		require.NoError(t, err)
		assert.True(t, report.BOMMissing)
		assert.True(t, report.TotalCost.IsZero())
		assert.True(t, report.UnitCost.IsZero())
		assert.Empty(t, report.MaterialCosts)
		assert.Equal(t, []string{WarnBOMMissing}, report.Warnings)
	})

	t.Run("non-positive production quantity is rejected", func(t *testing.T) {
		for _, q := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
			_, err := agg.Calculate(productRef(), nil, q, now)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		}
	})
}

func TestComputePriceStats(t *testing.T) {
	lots := []material.MaterialLot{
		makeLot("A", 1, 100, receivedDaysAgo(1)),
		makeLot("B", 1, 300, receivedDaysAgo(2)),
		makeLot("C", 1, 50, receivedDaysAgo(90)),
	}

	all := ComputePriceStats(lots, now.AddDate(0, 0, -365))
	assert.Equal(t, 3, all.Count)
	assert.True(t, all.Min.Equal(decimal.NewFromInt(50)))
	assert.True(t, all.Max.Equal(decimal.NewFromInt(300)))
	assert.True(t, all.Avg.Equal(decimal.NewFromInt(150)))

	recent := ComputePriceStats(lots, now.AddDate(0, 0, -30))
	assert.Equal(t, 2, recent.Count)
	assert.True(t, recent.Avg.Equal(decimal.NewFromInt(200)))

	empty := ComputePriceStats(nil, now)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Avg.IsZero())
}
