package material

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Category classifies a raw material
type Category string

const (
	CategoryIngredient Category = "ingredient"
	CategoryPackaging  Category = "packaging"
	CategoryAdditive   Category = "additive"
	CategoryChemical   Category = "chemical"
)

// IsValid returns true for a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryIngredient, CategoryPackaging, CategoryAdditive, CategoryChemical:
		return true
	default:
		return false
	}
}

// AllCategories returns every material category
func AllCategories() []Category {
	return []Category{CategoryIngredient, CategoryPackaging, CategoryAdditive, CategoryChemical}
}

const defaultUnit = "kg"

// RawMaterial is a purchasable input referenced by lots and BOM items
type RawMaterial struct {
	shared.BaseAggregateRoot
	Code           string
	Name           string
	Category       Category
	Description    string
	Unit           string
	StorageTempMin *decimal.Decimal
	StorageTempMax *decimal.Decimal
	ShelfLifeDays  *int
	Allergens      string
	SupplierID     uuid.UUID
	IsActive       bool
	CreatedBy      *uuid.UUID
}

// NewRawMaterial creates a new active raw material
func NewRawMaterial(code, name string, category Category, unit string, supplierID uuid.UUID) (*RawMaterial, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.InvalidInput("material code is required")
	}
	if len(code) > 50 {
		return nil, shared.InvalidInput("material code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.InvalidInput("material name is required")
	}
	if !category.IsValid() {
		return nil, shared.InvalidInput("invalid material category %q", category)
	}
	if supplierID == uuid.Nil {
		return nil, shared.InvalidInput("supplier is required")
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = defaultUnit
	}

	return &RawMaterial{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Category:          category,
		Unit:              unit,
		SupplierID:        supplierID,
		IsActive:          true,
	}, nil
}

// SetShelfLife sets the default shelf life used for new lots
func (m *RawMaterial) SetShelfLife(days *int) error {
	if days != nil && *days < 0 {
		return shared.InvalidInput("shelf life days cannot be negative")
	}
	m.ShelfLifeDays = days
	m.UpdatedAt = time.Now()
	return nil
}

// SetStorageTemperature sets the allowed storage temperature band
func (m *RawMaterial) SetStorageTemperature(minTemp, maxTemp *decimal.Decimal) error {
	if minTemp != nil && maxTemp != nil && minTemp.GreaterThan(*maxTemp) {
		return shared.InvalidInput("storage minimum temperature cannot exceed maximum")
	}
	m.StorageTempMin = minTemp
	m.StorageTempMax = maxTemp
	m.UpdatedAt = time.Now()
	return nil
}

// Deactivate marks the material as inactive
func (m *RawMaterial) Deactivate() {
	m.IsActive = false
	m.UpdatedAt = time.Now()
}

// DefaultExpiry returns receivedDate + shelf life, or nil when no shelf life is set
func (m *RawMaterial) DefaultExpiry(receivedDate time.Time) *time.Time {
	if m.ShelfLifeDays == nil {
		return nil
	}
	expiry := DateOf(receivedDate).AddDate(0, 0, *m.ShelfLifeDays)
	return &expiry
}
