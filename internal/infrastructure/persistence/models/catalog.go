package models

import (
	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/supplier"
	"github.com/shopspring/decimal"
)

// SupplierModel is the persistence model for suppliers
type SupplierModel struct {
	AggregateModel
	Code          string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string `gorm:"type:varchar(200);not null"`
	ContactPerson string `gorm:"type:varchar(100)"`
	Email         string `gorm:"type:varchar(200)"`
	Phone         string `gorm:"type:varchar(50)"`
	Address       string `gorm:"type:text"`
	Certification string `gorm:"type:varchar(200)"`
	Status        string `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain supplier
func (m *SupplierModel) ToDomain() *supplier.Supplier {
	return &supplier.Supplier{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		ContactPerson:     m.ContactPerson,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		Certification:     m.Certification,
		Status:            supplier.Status(m.Status),
		CreatedBy:         m.CreatedBy,
	}
}

// SupplierModelFromDomain creates a persistence model from a domain supplier
func SupplierModelFromDomain(s *supplier.Supplier) *SupplierModel {
	m := &SupplierModel{
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		Certification: s.Certification,
		Status:        string(s.Status),
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot, s.CreatedBy)
	return m
}

// RawMaterialModel is the persistence model for raw materials
type RawMaterialModel struct {
	AggregateModel
	Code           string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string           `gorm:"type:varchar(200);not null"`
	Category       string           `gorm:"type:varchar(20);not null;index"`
	Description    string           `gorm:"type:text"`
	Unit           string           `gorm:"type:varchar(20);not null;default:'kg'"`
	StorageTempMin *decimal.Decimal `gorm:"type:decimal(5,1)"`
	StorageTempMax *decimal.Decimal `gorm:"type:decimal(5,1)"`
	ShelfLifeDays  *int
	Allergens      string    `gorm:"type:text"`
	SupplierID     uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive       bool      `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (RawMaterialModel) TableName() string {
	return "raw_materials"
}

// ToDomain converts the persistence model to a domain raw material
func (m *RawMaterialModel) ToDomain() *material.RawMaterial {
	return &material.RawMaterial{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Category:          material.Category(m.Category),
		Description:       m.Description,
		Unit:              m.Unit,
		StorageTempMin:    m.StorageTempMin,
		StorageTempMax:    m.StorageTempMax,
		ShelfLifeDays:     m.ShelfLifeDays,
		Allergens:         m.Allergens,
		SupplierID:        m.SupplierID,
		IsActive:          m.IsActive,
		CreatedBy:         m.CreatedBy,
	}
}

// RawMaterialModelFromDomain creates a persistence model from a domain raw material
func RawMaterialModelFromDomain(r *material.RawMaterial) *RawMaterialModel {
	m := &RawMaterialModel{
		Code:           r.Code,
		Name:           r.Name,
		Category:       string(r.Category),
		Description:    r.Description,
		Unit:           r.Unit,
		StorageTempMin: r.StorageTempMin,
		StorageTempMax: r.StorageTempMax,
		ShelfLifeDays:  r.ShelfLifeDays,
		Allergens:      r.Allergens,
		SupplierID:     r.SupplierID,
		IsActive:       r.IsActive,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot, r.CreatedBy)
	return m
}

// FinishedProductModel is the persistence model for finished products
type FinishedProductModel struct {
	AggregateModel
	Code           string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string           `gorm:"type:varchar(200);not null"`
	Description    string           `gorm:"type:text"`
	Version        string           `gorm:"column:product_version;type:varchar(20);not null;default:'1.0'"`
	ShelfLifeDays  int              `gorm:"not null;default:0"`
	StorageTempMin *decimal.Decimal `gorm:"type:decimal(5,1)"`
	StorageTempMax *decimal.Decimal `gorm:"type:decimal(5,1)"`
	NetWeight      decimal.Decimal  `gorm:"type:decimal(10,3);not null;default:0"`
	PackagingType  string           `gorm:"type:varchar(100)"`
	AllergenInfo   string           `gorm:"type:text"`
	NutritionFacts map[string]any   `gorm:"serializer:json;type:jsonb"`
	IsActive       bool             `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (FinishedProductModel) TableName() string {
	return "finished_products"
}

// ToDomain converts the persistence model to a domain product
func (m *FinishedProductModel) ToDomain() *product.FinishedProduct {
	return &product.FinishedProduct{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		Version:           m.Version,
		ShelfLifeDays:     m.ShelfLifeDays,
		StorageTempMin:    m.StorageTempMin,
		StorageTempMax:    m.StorageTempMax,
		NetWeight:         m.NetWeight,
		PackagingType:     m.PackagingType,
		AllergenInfo:      m.AllergenInfo,
		NutritionFacts:    m.NutritionFacts,
		IsActive:          m.IsActive,
		CreatedBy:         m.CreatedBy,
	}
}

// FinishedProductModelFromDomain creates a persistence model from a domain product
func FinishedProductModelFromDomain(p *product.FinishedProduct) *FinishedProductModel {
	m := &FinishedProductModel{
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
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot, p.CreatedBy)
	return m
}

// BOMItemModel is the persistence model for bill-of-materials lines
type BOMItemModel struct {
	BaseModel
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityPerUnit decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	IsActive        bool            `gorm:"not null;default:true"`
	Notes           string          `gorm:"type:text"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (BOMItemModel) TableName() string {
	return "bom_items"
}

// ToDomain converts the persistence model to a domain BOM line
func (m *BOMItemModel) ToDomain() *product.BOMItem {
	return &product.BOMItem{
		BaseEntity:      m.BaseModel.ToDomain(),
		ProductID:       m.ProductID,
		MaterialID:      m.MaterialID,
		QuantityPerUnit: m.QuantityPerUnit,
		Unit:            m.Unit,
		IsActive:        m.IsActive,
		Notes:           m.Notes,
		CreatedBy:       m.CreatedBy,
	}
}

// BOMItemModelFromDomain creates a persistence model from a domain BOM line
func BOMItemModelFromDomain(b *product.BOMItem) *BOMItemModel {
	m := &BOMItemModel{
		ProductID:       b.ProductID,
		MaterialID:      b.MaterialID,
		QuantityPerUnit: b.QuantityPerUnit,
		Unit:            b.Unit,
		IsActive:        b.IsActive,
		Notes:           b.Notes,
		CreatedBy:       b.CreatedBy,
	}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}
