package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/shopspring/decimal"
)

// MaterialLotModel is the persistence model for the MaterialLot aggregate root
type MaterialLotModel struct {
	AggregateModel
	LotNumber            string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_material_lot_number,priority:2"`
	MaterialID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_material_lot_number,priority:1"`
	SupplierID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	ReceivedDate         time.Time        `gorm:"type:date;not null;index"`
	ExpiryDate           *time.Time       `gorm:"type:date;index"`
	QuantityReceived     decimal.Decimal  `gorm:"type:decimal(12,3);not null"`
	QuantityCurrent      decimal.Decimal  `gorm:"type:decimal(12,3);not null"`
	UnitPrice            decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Status               string           `gorm:"type:varchar(20);not null;index"`
	QualityTestPassed    *bool            `gorm:"index"`
	QualityTestDate      *time.Time       `gorm:"type:date"`
	QualityTestNotes     string           `gorm:"type:text"`
	StorageLocation      string           `gorm:"type:varchar(100)"`
	TemperatureAtReceipt *decimal.Decimal `gorm:"type:decimal(5,1)"`
	RetireReason         string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (MaterialLotModel) TableName() string {
	return "material_lots"
}

// ToDomain converts the persistence model to a domain lot
func (m *MaterialLotModel) ToDomain() *material.MaterialLot {
	return &material.MaterialLot{
		BaseAggregateRoot:    m.ToAggregateRoot(),
		LotNumber:            m.LotNumber,
		MaterialID:           m.MaterialID,
		SupplierID:           m.SupplierID,
		ReceivedDate:         m.ReceivedDate,
		ExpiryDate:           m.ExpiryDate,
		QuantityReceived:     m.QuantityReceived,
		QuantityCurrent:      m.QuantityCurrent,
		UnitPrice:            m.UnitPrice,
		Status:               material.LotStatus(m.Status),
		QualityTestPassed:    m.QualityTestPassed,
		QualityTestDate:      m.QualityTestDate,
		QualityTestNotes:     m.QualityTestNotes,
		StorageLocation:      m.StorageLocation,
		TemperatureAtReceipt: m.TemperatureAtReceipt,
		RetireReason:         m.RetireReason,
		CreatedBy:            m.CreatedBy,
	}
}

// MaterialLotModelFromDomain creates a persistence model from a domain lot
func MaterialLotModelFromDomain(l *material.MaterialLot) *MaterialLotModel {
	m := &MaterialLotModel{
		LotNumber:            l.LotNumber,
		MaterialID:           l.MaterialID,
		SupplierID:           l.SupplierID,
		ReceivedDate:         l.ReceivedDate,
		ExpiryDate:           l.ExpiryDate,
		QuantityReceived:     l.QuantityReceived,
		QuantityCurrent:      l.QuantityCurrent,
		UnitPrice:            l.UnitPrice,
		Status:               string(l.Status),
		QualityTestPassed:    l.QualityTestPassed,
		QualityTestDate:      l.QualityTestDate,
		QualityTestNotes:     l.QualityTestNotes,
		StorageLocation:      l.StorageLocation,
		TemperatureAtReceipt: l.TemperatureAtReceipt,
		RetireReason:         l.RetireReason,
	}
	m.FromDomainAggregateRoot(l.BaseAggregateRoot, l.CreatedBy)
	return m
}

// LotConsumptionModel is the append-only record of one lot deduction
type LotConsumptionModel struct {
	BaseModel
	LotID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity          decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	ProductionOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	Reference         string          `gorm:"type:varchar(200)"`
	ConsumedAt        time.Time       `gorm:"not null;index"`
	ConsumedBy        *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LotConsumptionModel) TableName() string {
	return "lot_consumptions"
}

// ToDomain converts the persistence model to a domain consumption record
func (m *LotConsumptionModel) ToDomain() *material.LotConsumption {
	return &material.LotConsumption{
		BaseEntity:        m.BaseModel.ToDomain(),
		LotID:             m.LotID,
		MaterialID:        m.MaterialID,
		Quantity:          m.Quantity,
		RemainingQuantity: m.RemainingQuantity,
		ProductionOrderID: m.ProductionOrderID,
		Reference:         m.Reference,
		ConsumedAt:        m.ConsumedAt,
		ConsumedBy:        m.ConsumedBy,
	}
}

// LotConsumptionModelFromDomain creates a persistence model from a consumption record
func LotConsumptionModelFromDomain(c *material.LotConsumption) *LotConsumptionModel {
	m := &LotConsumptionModel{
		LotID:             c.LotID,
		MaterialID:        c.MaterialID,
		Quantity:          c.Quantity,
		RemainingQuantity: c.RemainingQuantity,
		ProductionOrderID: c.ProductionOrderID,
		Reference:         c.Reference,
		ConsumedAt:        c.ConsumedAt,
		ConsumedBy:        c.ConsumedBy,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
