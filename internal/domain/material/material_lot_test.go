package material

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMaterial(t *testing.T, shelfLife *int) *RawMaterial {
	t.Helper()
	m, err := NewRawMaterial("flour-01", "Wheat flour", CategoryIngredient, "kg", uuid.New())
	require.NoError(t, err)
	require.NoError(t, m.SetShelfLife(shelfLife))
	return m
}

func testLot(t *testing.T, qty, price int64) *MaterialLot {
	t.Helper()
	lot, err := NewMaterialLot(testMaterial(t, nil), LotReceipt{
		SupplierID:       uuid.New(),
		LotNumber:        "LOT-" + uuid.NewString()[:8],
		QuantityReceived: decimal.NewFromInt(qty),
		UnitPrice:        decimal.NewFromInt(price),
		ReceivedDate:     time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return lot
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func intPtr(v int) *int { return &v }

func TestNewMaterialLot(t *testing.T) {
	received := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	t.Run("initial state", func(t *testing.T) {
		m := testMaterial(t, nil)
		lot, err := NewMaterialLot(m, LotReceipt{
			SupplierID:       uuid.New(),
			LotNumber:        " L-001 ",
			QuantityReceived: decimal.NewFromInt(50),
			UnitPrice:        decimal.NewFromInt(2000),
			ReceivedDate:     received,
		})
		require.NoError(t, err)
		assert.Equal(t, "L-001", lot.LotNumber)
		assert.Equal(t, LotStatusReceived, lot.Status)
		assert.True(t, lot.QuantityCurrent.Equal(lot.QuantityReceived))
		assert.Nil(t, lot.QualityTestPassed)
		assert.Nil(t, lot.ExpiryDate)
		assert.Equal(t, m.ID, lot.MaterialID)
		assert.Equal(t, 1, lot.Version)
		require.Len(t, lot.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeLotReceived, lot.GetDomainEvents()[0].EventType())
	})

	t.Run("expiry defaults from shelf life", func(t *testing.T) {
		lot, err := NewMaterialLot(testMaterial(t, intPtr(10)), LotReceipt{
			SupplierID:       uuid.New(),
			LotNumber:        "L-002",
			QuantityReceived: decimal.NewFromInt(5),
			UnitPrice:        decimal.NewFromInt(100),
			ReceivedDate:     received,
		})
		require.NoError(t, err)
		require.NotNil(t, lot.ExpiryDate)
		assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), *lot.ExpiryDate)
	})

	t.Run("explicit expiry wins over shelf life", func(t *testing.T) {
		expiry := time.Date(2026, 12, 31, 15, 0, 0, 0, time.UTC)
		lot, err := NewMaterialLot(testMaterial(t, intPtr(10)), LotReceipt{
			SupplierID:       uuid.New(),
			LotNumber:        "L-003",
			QuantityReceived: decimal.NewFromInt(5),
			UnitPrice:        decimal.NewFromInt(100),
			ReceivedDate:     received,
			ExpiryDate:       &expiry,
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), *lot.ExpiryDate)
	})

	t.Run("rejects invalid receipts", func(t *testing.T) {
		m := testMaterial(t, nil)
		before := received.AddDate(0, 0, -1)
		cases := map[string]LotReceipt{
			"zero quantity":              {SupplierID: uuid.New(), LotNumber: "X", QuantityReceived: decimal.Zero, UnitPrice: decimal.NewFromInt(1), ReceivedDate: received},
			"negative price":             {SupplierID: uuid.New(), LotNumber: "X", QuantityReceived: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(-1), ReceivedDate: received},
			"zero price":                 {SupplierID: uuid.New(), LotNumber: "X", QuantityReceived: decimal.NewFromInt(1), UnitPrice: decimal.Zero, ReceivedDate: received},
			"empty lot number":           {SupplierID: uuid.New(), LotNumber: "  ", QuantityReceived: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1), ReceivedDate: received},
			"no supplier":                {LotNumber: "X", QuantityReceived: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1), ReceivedDate: received},
			"quantity finer than stored": {SupplierID: uuid.New(), LotNumber: "X", QuantityReceived: decimal.RequireFromString("0.0004"), UnitPrice: decimal.NewFromInt(1), ReceivedDate: received},
			"price finer than stored":    {SupplierID: uuid.New(), LotNumber: "X", QuantityReceived: decimal.NewFromInt(20), UnitPrice: decimal.RequireFromString("2000.125"), ReceivedDate: received},
			"expiry too early":           {SupplierID: uuid.New(), LotNumber: "X", QuantityReceived: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1), ReceivedDate: received, ExpiryDate: &before},
		}
		for name, receipt := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := NewMaterialLot(m, receipt)
				assertCode(t, err, shared.CodeInvalidInput)
			})
		}
	})
}

func TestMaterialLot_Consume(t *testing.T) {
	t.Run("partial consumption moves lot in use", func(t *testing.T) {
		lot := testLot(t, 50, 2000)
		require.NoError(t, lot.Consume(decimal.NewFromInt(20)))
		assert.True(t, lot.QuantityCurrent.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, LotStatusInUse, lot.Status)
		assert.Equal(t, 2, lot.Version)
	})

	t.Run("consuming everything marks lot used", func(t *testing.T) {
		lot := testLot(t, 50, 2000)
		require.NoError(t, lot.Consume(decimal.NewFromInt(50)))
		assert.True(t, lot.QuantityCurrent.IsZero())
		assert.Equal(t, LotStatusUsed, lot.Status)

		err := lot.Consume(decimal.NewFromInt(1))
		assertCode(t, err, shared.CodeInvalidState)
	})

	t.Run("over consumption leaves lot unchanged", func(t *testing.T) {
		lot := testLot(t, 10, 2000)
		err := lot.Consume(decimal.NewFromInt(11))
		assertCode(t, err, shared.CodeInsufficientStock)
		assert.True(t, lot.QuantityCurrent.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, LotStatusReceived, lot.Status)
		assert.Equal(t, 1, lot.Version)
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		lot := testLot(t, 10, 2000)
		assertCode(t, lot.Consume(decimal.Zero), shared.CodeInvalidInput)
		assertCode(t, lot.Consume(decimal.NewFromInt(-3)), shared.CodeInvalidInput)
	})

	t.Run("quantity finer than stored precision rejected", func(t *testing.T) {
		lot := testLot(t, 20, 2000)
		assertCode(t, lot.Consume(decimal.RequireFromString("1.3125")), shared.CodeInvalidInput)
		assert.True(t, lot.QuantityCurrent.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, 1, lot.Version)

		require.NoError(t, lot.Consume(decimal.RequireFromString("1.313")))
		assert.Equal(t, "18.687", lot.QuantityCurrent.StringFixed(3))
	})

	t.Run("retired lot cannot be consumed", func(t *testing.T) {
		lot := testLot(t, 10, 2000)
		require.NoError(t, lot.Retire(LotStatusRejected, "mould"))
		assertCode(t, lot.Consume(decimal.NewFromInt(1)), shared.CodeInvalidState)
	})

	t.Run("quantity invariant holds across consumptions", func(t *testing.T) {
		lot := testLot(t, 10, 100)
		for i := 0; i < 15; i++ {
			_ = lot.Consume(decimal.NewFromFloat(0.75))
			assert.False(t, lot.QuantityCurrent.IsNegative())
			assert.True(t, lot.QuantityCurrent.LessThanOrEqual(lot.QuantityReceived))
		}
	})
}

func TestMaterialLot_Retire(t *testing.T) {
	lot := testLot(t, 10, 2000)
	require.NoError(t, lot.Retire(LotStatusExpired, "past date"))
	assert.Equal(t, LotStatusExpired, lot.Status)
	assert.Equal(t, "past date", lot.RetireReason)

	assertCode(t, lot.Retire(LotStatusRejected, "again"), shared.CodeInvalidState)
	assertCode(t, testLot(t, 1, 1).Retire(LotStatusUsed, "nope"), shared.CodeInvalidInput)
}

func TestMaterialLot_RecordQualityTest(t *testing.T) {
	at := time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)
	lot := testLot(t, 10, 2000)

	require.NoError(t, lot.RecordQualityTest(true, "ok", at))
	require.NotNil(t, lot.QualityTestPassed)
	assert.True(t, *lot.QualityTestPassed)
	assert.Equal(t, at, *lot.QualityTestDate)

	err := lot.RecordQualityTest(false, "changed mind", at)
	assertCode(t, err, shared.CodeInvalidState)
	assert.True(t, *lot.QualityTestPassed)
}

func TestMaterialLot_MoveToStorage(t *testing.T) {
	lot := testLot(t, 10, 2000)
	require.NoError(t, lot.MoveToStorage("cold room A"))
	assert.Equal(t, LotStatusInStorage, lot.Status)
	assert.Equal(t, "cold room A", lot.StorageLocation)
	assertCode(t, lot.MoveToStorage(""), shared.CodeInvalidState)
}

func TestMaterialLot_EnsureDeletable(t *testing.T) {
	untouched := testLot(t, 50, 2000)
	assert.NoError(t, untouched.EnsureDeletable())

	partial := testLot(t, 50, 2000)
	require.NoError(t, partial.Consume(decimal.NewFromInt(20)))
	assertCode(t, partial.EnsureDeletable(), shared.CodeConflict)
}

func TestMaterialLot_IsAvailable(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC)
	passed := func(l *MaterialLot) *MaterialLot {
		require.NoError(t, l.RecordQualityTest(true, "", now))
		return l
	}

	t.Run("untested lot is not available", func(t *testing.T) {
		assert.False(t, testLot(t, 5, 1).IsAvailable(now))
	})

	t.Run("failed lot is not available", func(t *testing.T) {
		lot := testLot(t, 5, 1)
		require.NoError(t, lot.RecordQualityTest(false, "", now))
		assert.False(t, lot.IsAvailable(now))
	})

	t.Run("passed lot is available", func(t *testing.T) {
		assert.True(t, passed(testLot(t, 5, 1)).IsAvailable(now))
	})

	t.Run("lot expiring today is still available", func(t *testing.T) {
		lot := passed(testLot(t, 5, 1))
		today := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
		lot.ExpiryDate = &today
		assert.True(t, lot.IsAvailable(now))
	})

	t.Run("lot expired yesterday is not available", func(t *testing.T) {
		lot := passed(testLot(t, 5, 1))
		yesterday := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
		lot.ExpiryDate = &yesterday
		assert.False(t, lot.IsAvailable(now))
	})

	t.Run("in use lot is available", func(t *testing.T) {
		lot := passed(testLot(t, 5, 1))
		require.NoError(t, lot.Consume(decimal.NewFromInt(2)))
		assert.Equal(t, LotStatusInUse, lot.Status)
		assert.True(t, lot.IsAvailable(now))
	})

	t.Run("used lot is not available", func(t *testing.T) {
		lot := passed(testLot(t, 5, 1))
		require.NoError(t, lot.Consume(decimal.NewFromInt(5)))
		assert.False(t, lot.IsAvailable(now))
	})
}

func TestMaterialLot_UsageRate(t *testing.T) {
	lot := testLot(t, 50, 2000)
	require.NoError(t, lot.Consume(decimal.NewFromInt(20)))
	assert.True(t, lot.ConsumedQuantity().Equal(decimal.NewFromInt(20)))
	assert.True(t, lot.UsageRate().Equal(decimal.NewFromInt(40)))
}
