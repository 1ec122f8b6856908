package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/supplier"
	"github.com/shopspring/decimal"
)

// CreateSupplierRequest represents a request to register a supplier
type CreateSupplierRequest struct {
	Code          string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Certification string
	CreatedBy     *uuid.UUID
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Status   string
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Certification string    `json:"certification"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a domain supplier to a response
func ToSupplierResponse(s *supplier.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		Certification: s.Certification,
		Status:        string(s.Status),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// CreateMaterialRequest represents a request to register a raw material
type CreateMaterialRequest struct {
	Code           string
	Name           string
	Category       string
	Description    string
	Unit           string
	StorageTempMin *decimal.Decimal
	StorageTempMax *decimal.Decimal
	ShelfLifeDays  *int
	Allergens      string
	SupplierID     uuid.UUID
	CreatedBy      *uuid.UUID
}

// MaterialListFilter represents filter options for the raw material list
type MaterialListFilter struct {
	Category   string
	SupplierID *uuid.UUID
	IsActive   *bool
	Search     string
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// MaterialResponse represents a raw material in API responses
type MaterialResponse struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	Description    string           `json:"description"`
	Unit           string           `json:"unit"`
	StorageTempMin *decimal.Decimal `json:"storage_temp_min"`
	StorageTempMax *decimal.Decimal `json:"storage_temp_max"`
	ShelfLifeDays  *int             `json:"shelf_life_days"`
	Allergens      string           `json:"allergens"`
	SupplierID     uuid.UUID        `json:"supplier_id"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToMaterialResponse converts a domain raw material to a response
func ToMaterialResponse(m *material.RawMaterial) MaterialResponse {
	return MaterialResponse{
		ID:             m.ID,
		Code:           m.Code,
		Name:           m.Name,
		Category:       string(m.Category),
		Description:    m.Description,
		Unit:           m.Unit,
		StorageTempMin: m.StorageTempMin,
		StorageTempMax: m.StorageTempMax,
		ShelfLifeDays:  m.ShelfLifeDays,
		Allergens:      m.Allergens,
		SupplierID:     m.SupplierID,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// CreateProductRequest represents a request to register a finished product
type CreateProductRequest struct {
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
	CreatedBy      *uuid.UUID
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	IsActive *bool
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// ProductResponse represents a finished product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Version        string           `json:"version"`
	ShelfLifeDays  int              `json:"shelf_life_days"`
	StorageTempMin *decimal.Decimal `json:"storage_temp_min"`
	StorageTempMax *decimal.Decimal `json:"storage_temp_max"`
	NetWeight      decimal.Decimal  `json:"net_weight"`
	PackagingType  string           `json:"packaging_type"`
	AllergenInfo   string           `json:"allergen_info"`
	NutritionFacts map[string]any   `json:"nutrition_facts"`
	IsActive       bool             `json:"is_active"`
	HasBOM         bool             `json:"has_bom"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *product.FinishedProduct, hasBOM bool) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		Version:        p.Version,
		ShelfLifeDays:  p.ShelfLifeDays,
		StorageTempMin: p.StorageTempMin,
		StorageTempMax: p.StorageTempMax,
		NetWeight:      p.NetWeight,
		PackagingType:  p.PackagingType,
		AllergenInfo:   p.AllergenInfo,
		NutritionFacts: p.NutritionFacts,
		IsActive:       p.IsActive,
		HasBOM:         hasBOM,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// AddBOMItemRequest links a raw material to a product
type AddBOMItemRequest struct {
	ProductID       uuid.UUID
	MaterialID      uuid.UUID
	QuantityPerUnit decimal.Decimal
	Unit            string
	Notes           string
	CreatedBy       *uuid.UUID
}

// UpdateBOMItemRequest changes a BOM line. Nil fields are left unchanged.
type UpdateBOMItemRequest struct {
	QuantityPerUnit *decimal.Decimal
	Unit            *string
	Notes           *string
}

// BOMItemResponse represents a BOM line in API responses
type BOMItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	MaterialID      uuid.UUID       `json:"material_id"`
	MaterialCode    string          `json:"material_code"`
	MaterialName    string          `json:"material_name"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Unit            string          `json:"unit"`
	IsActive        bool            `json:"is_active"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToBOMItemResponse converts a BOM line; m may be nil when the material is unknown
func ToBOMItemResponse(item *product.BOMItem, m *material.RawMaterial) BOMItemResponse {
	resp := BOMItemResponse{
		ID:              item.ID,
		ProductID:       item.ProductID,
		MaterialID:      item.MaterialID,
		QuantityPerUnit: item.QuantityPerUnit,
		Unit:            item.Unit,
		IsActive:        item.IsActive,
		Notes:           item.Notes,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
	if m != nil {
		resp.MaterialCode = m.Code
		resp.MaterialName = m.Name
	}
	return resp
}
