package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/shopspring/decimal"
)

// ProductionOrderModel is the persistence model for production orders
type ProductionOrderModel struct {
	AggregateModel
	OrderNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PlannedQuantity  decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	ProducedQuantity decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	PlannedStartDate time.Time       `gorm:"not null;index"`
	PlannedEndDate   time.Time       `gorm:"not null"`
	ActualStartDate  *time.Time
	ActualEndDate    *time.Time
	Status           string     `gorm:"type:varchar(20);not null;index"`
	Priority         string     `gorm:"type:varchar(10);not null;default:'normal'"`
	Notes            string     `gorm:"type:text"`
	AssignedOperator *uuid.UUID `gorm:"type:uuid"`
	CancelReason     string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductionOrderModel) TableName() string {
	return "production_orders"
}

// ToDomain converts the persistence model to a domain production order
func (m *ProductionOrderModel) ToDomain() *production.ProductionOrder {
	return &production.ProductionOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		ProductID:         m.ProductID,
		PlannedQuantity:   m.PlannedQuantity,
		ProducedQuantity:  m.ProducedQuantity,
		PlannedStartDate:  m.PlannedStartDate,
		PlannedEndDate:    m.PlannedEndDate,
		ActualStartDate:   m.ActualStartDate,
		ActualEndDate:     m.ActualEndDate,
		Status:            production.OrderStatus(m.Status),
		Priority:          production.Priority(m.Priority),
		Notes:             m.Notes,
		AssignedOperator:  m.AssignedOperator,
		CancelReason:      m.CancelReason,
		CreatedBy:         m.CreatedBy,
	}
}

// ProductionOrderModelFromDomain creates a persistence model from a domain production order
func ProductionOrderModelFromDomain(o *production.ProductionOrder) *ProductionOrderModel {
	m := &ProductionOrderModel{
		OrderNumber:      o.OrderNumber,
		ProductID:        o.ProductID,
		PlannedQuantity:  o.PlannedQuantity,
		ProducedQuantity: o.ProducedQuantity,
		PlannedStartDate: o.PlannedStartDate,
		PlannedEndDate:   o.PlannedEndDate,
		ActualStartDate:  o.ActualStartDate,
		ActualEndDate:    o.ActualEndDate,
		Status:           string(o.Status),
		Priority:         string(o.Priority),
		Notes:            o.Notes,
		AssignedOperator: o.AssignedOperator,
		CancelReason:     o.CancelReason,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot, o.CreatedBy)
	return m
}
