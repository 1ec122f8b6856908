package product

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BOMItem links a product to a raw material with the quantity needed per unit
type BOMItem struct {
	shared.BaseEntity
	ProductID       uuid.UUID
	MaterialID      uuid.UUID
	QuantityPerUnit decimal.Decimal
	Unit            string
	IsActive        bool
	Notes           string
	CreatedBy       *uuid.UUID
}

// NewBOMItem creates an active BOM line
func NewBOMItem(productID, materialID uuid.UUID, quantityPerUnit decimal.Decimal, unit, notes string) (*BOMItem, error) {
	if productID == uuid.Nil {
		return nil, shared.InvalidInput("product is required")
	}
	if materialID == uuid.Nil {
		return nil, shared.InvalidInput("raw material is required")
	}
	if err := shared.CheckQuantity("quantity per unit", quantityPerUnit); err != nil {
		return nil, err
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return nil, shared.InvalidInput("unit is required")
	}
	return &BOMItem{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		MaterialID:      materialID,
		QuantityPerUnit: quantityPerUnit,
		Unit:            unit,
		IsActive:        true,
		Notes:           strings.TrimSpace(notes),
	}, nil
}

// RequiredQuantity returns the material needed for a production quantity
func (b *BOMItem) RequiredQuantity(productionQuantity decimal.Decimal) decimal.Decimal {
	return b.QuantityPerUnit.Mul(productionQuantity)
}

// StockQuantity is RequiredQuantity rounded to the precision lots are kept at
func (b *BOMItem) StockQuantity(productionQuantity decimal.Decimal) decimal.Decimal {
	return b.RequiredQuantity(productionQuantity).Round(shared.QuantityScale)
}

// Update changes quantity, unit and notes. Zero values keep the current setting.
func (b *BOMItem) Update(quantityPerUnit *decimal.Decimal, unit, notes *string) error {
	if quantityPerUnit != nil {
		if err := shared.CheckQuantity("quantity per unit", *quantityPerUnit); err != nil {
			return err
		}
		b.QuantityPerUnit = *quantityPerUnit
	}
	if unit != nil {
		u := strings.TrimSpace(*unit)
		if u == "" {
			return shared.InvalidInput("unit cannot be empty")
		}
		b.Unit = u
	}
	if notes != nil {
		b.Notes = strings.TrimSpace(*notes)
	}
	b.UpdatedAt = time.Now()
	return nil
}

// Deactivate removes the line from the active BOM
func (b *BOMItem) Deactivate() error {
	if !b.IsActive {
		return shared.InvalidState("BOM item is already inactive")
	}
	b.IsActive = false
	b.UpdatedAt = time.Now()
	return nil
}
