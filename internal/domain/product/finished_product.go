package product

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const defaultVersion = "1.0"

// FinishedProduct is a sellable item produced from a bill of materials
type FinishedProduct struct {
	shared.BaseAggregateRoot
	Code           string
	Name           string
	Description    string
	Version        string
	ShelfLifeDays  int
	StorageTempMin *decimal.Decimal
	StorageTempMax *decimal.Decimal
	NetWeight      decimal.Decimal
	PackagingType  string
	AllergenInfo   string
	NutritionFacts map[string]any
	IsActive       bool
	CreatedBy      *uuid.UUID
}

// ProductSpec holds the descriptive attributes of a product
type ProductSpec struct {
	Description    string
	Version        string
	ShelfLifeDays  int
	StorageTempMin *decimal.Decimal
	StorageTempMax *decimal.Decimal
	NetWeight      decimal.Decimal
	PackagingType  string
	AllergenInfo   string
	NutritionFacts map[string]any
}

// NewFinishedProduct creates an active product
func NewFinishedProduct(code, name string, spec ProductSpec) (*FinishedProduct, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.InvalidInput("product code is required")
	}
	if len(code) > 50 {
		return nil, shared.InvalidInput("product code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.InvalidInput("product name is required")
	}
	if spec.ShelfLifeDays < 0 {
		return nil, shared.InvalidInput("shelf life days cannot be negative")
	}
	if spec.NetWeight.IsNegative() {
		return nil, shared.InvalidInput("net weight cannot be negative")
	}
	if spec.StorageTempMin != nil && spec.StorageTempMax != nil && spec.StorageTempMin.GreaterThan(*spec.StorageTempMax) {
		return nil, shared.InvalidInput("storage minimum temperature cannot exceed maximum")
	}
	version := strings.TrimSpace(spec.Version)
	if version == "" {
		version = defaultVersion
	}

	return &FinishedProduct{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Description:       spec.Description,
		Version:           version,
		ShelfLifeDays:     spec.ShelfLifeDays,
		StorageTempMin:    spec.StorageTempMin,
		StorageTempMax:    spec.StorageTempMax,
		NetWeight:         spec.NetWeight,
		PackagingType:     strings.TrimSpace(spec.PackagingType),
		AllergenInfo:      spec.AllergenInfo,
		NutritionFacts:    spec.NutritionFacts,
		IsActive:          true,
	}, nil
}

// Deactivate hides the product from production and cost summaries
func (p *FinishedProduct) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
