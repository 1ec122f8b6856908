package product

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFinishedProduct(t *testing.T) {
	p, err := NewFinishedProduct("kimchi-500", "Kimchi 500g", ProductSpec{
		ShelfLifeDays:  30,
		NetWeight:      decimal.NewFromFloat(0.5),
		NutritionFacts: map[string]any{"kcal": 20},
	})
	require.NoError(t, err)
	assert.Equal(t, "KIMCHI-500", p.Code)
	assert.Equal(t, "1.0", p.Version)
	assert.True(t, p.IsActive)

	_, err = NewFinishedProduct("X", "", ProductSpec{})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewFinishedProduct("X", "Y", ProductSpec{ShelfLifeDays: -1})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestBOMItem(t *testing.T) {
	item, err := NewBOMItem(uuid.New(), uuid.New(), decimal.NewFromFloat(0.25), "kg", "")
	require.NoError(t, err)

	assert.True(t, item.RequiredQuantity(decimal.NewFromInt(40)).Equal(decimal.NewFromInt(10)))

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewBOMItem(uuid.New(), uuid.New(), decimal.Zero, "kg", "")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))

		bad := decimal.NewFromInt(-1)
		assert.True(t, errors.Is(item.Update(&bad, nil, nil), shared.ErrInvalidInput))
	})

	t.Run("rejects quantity finer than stored precision", func(t *testing.T) {
		_, err := NewBOMItem(uuid.New(), uuid.New(), decimal.RequireFromString("0.0005"), "kg", "")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))

		fine := decimal.RequireFromString("0.1255")
		assert.True(t, errors.Is(item.Update(&fine, nil, nil), shared.ErrInvalidInput))
		assert.True(t, item.QuantityPerUnit.Equal(decimal.NewFromFloat(0.25)))
	})

	t.Run("stock quantity is rounded to stored precision", func(t *testing.T) {
		line, err := NewBOMItem(uuid.New(), uuid.New(), decimal.RequireFromString("0.125"), "kg", "")
		require.NoError(t, err)
		produced := decimal.RequireFromString("10.5")
		assert.Equal(t, "1.3125", line.RequiredQuantity(produced).String())
		assert.Equal(t, "1.313", line.StockQuantity(produced).String())
	})

	t.Run("update and deactivate", func(t *testing.T) {
		q := decimal.NewFromFloat(0.3)
		unit := "g"
		require.NoError(t, item.Update(&q, &unit, nil))
		assert.True(t, item.QuantityPerUnit.Equal(q))
		assert.Equal(t, "g", item.Unit)

		require.NoError(t, item.Deactivate())
		assert.False(t, item.IsActive)
		assert.True(t, errors.Is(item.Deactivate(), shared.ErrInvalidState))
	})
}
