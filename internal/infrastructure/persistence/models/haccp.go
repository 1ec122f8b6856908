package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/shopspring/decimal"
)

// CCPModel is the persistence model for critical control point definitions
type CCPModel struct {
	AggregateModel
	Code                string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name                string           `gorm:"type:varchar(200);not null"`
	CCPType             string           `gorm:"column:ccp_type;type:varchar(20);not null;index"`
	Description         string           `gorm:"type:text"`
	ProcessStep         string           `gorm:"type:varchar(200)"`
	CriticalLimitMin    *decimal.Decimal `gorm:"type:decimal(10,3)"`
	CriticalLimitMax    *decimal.Decimal `gorm:"type:decimal(10,3)"`
	MonitoringFrequency string           `gorm:"type:varchar(100)"`
	CorrectiveAction    string           `gorm:"type:text"`
	ResponsiblePerson   string           `gorm:"type:varchar(100)"`
	ProductID           *uuid.UUID       `gorm:"type:uuid;index"`
	IsActive            bool             `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CCPModel) TableName() string {
	return "ccps"
}

// ToDomain converts the persistence model to a domain CCP
func (m *CCPModel) ToDomain() *haccp.CCP {
	return &haccp.CCP{
		BaseAggregateRoot:   m.ToAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Type:                haccp.CCPType(m.CCPType),
		Description:         m.Description,
		ProcessStep:         m.ProcessStep,
		Limits:              haccp.CriticalLimits{Min: m.CriticalLimitMin, Max: m.CriticalLimitMax},
		MonitoringFrequency: m.MonitoringFrequency,
		CorrectiveAction:    m.CorrectiveAction,
		ResponsiblePerson:   m.ResponsiblePerson,
		ProductID:           m.ProductID,
		IsActive:            m.IsActive,
		CreatedBy:           m.CreatedBy,
	}
}

// CCPModelFromDomain creates a persistence model from a domain CCP
func CCPModelFromDomain(c *haccp.CCP) *CCPModel {
	m := &CCPModel{
		Code:                c.Code,
		Name:                c.Name,
		CCPType:             string(c.Type),
		Description:         c.Description,
		ProcessStep:         c.ProcessStep,
		CriticalLimitMin:    c.Limits.Min,
		CriticalLimitMax:    c.Limits.Max,
		MonitoringFrequency: c.MonitoringFrequency,
		CorrectiveAction:    c.CorrectiveAction,
		ResponsiblePerson:   c.ResponsiblePerson,
		ProductID:           c.ProductID,
		IsActive:            c.IsActive,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot, c.CreatedBy)
	return m
}

// CCPLogModel is the persistence model for CCP monitoring logs
type CCPLogModel struct {
	AggregateModel
	CCPID                 uuid.UUID       `gorm:"column:ccp_id;type:uuid;not null;index:idx_ccp_log_ccp_measured,priority:1"`
	ProductionOrderID     *uuid.UUID      `gorm:"type:uuid;index"`
	MeasuredValue         decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Unit                  string          `gorm:"type:varchar(20);not null"`
	MeasuredAt            time.Time       `gorm:"not null;index:idx_ccp_log_ccp_measured,priority:2"`
	Status                string          `gorm:"type:varchar(20);not null;index"`
	IsWithinLimits        bool            `gorm:"not null"`
	DeviationNotes        string          `gorm:"type:text"`
	CorrectiveActionTaken string          `gorm:"type:text"`
	CorrectiveActionBy    *uuid.UUID      `gorm:"type:uuid"`
	CorrectiveActionAt    *time.Time
	VerifiedBy            *uuid.UUID `gorm:"type:uuid"`
	VerificationDate      *time.Time
	MeasurementDevice     string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CCPLogModel) TableName() string {
	return "ccp_logs"
}

// ToDomain converts the persistence model to a domain monitoring log
func (m *CCPLogModel) ToDomain() *haccp.CCPLog {
	return &haccp.CCPLog{
		BaseAggregateRoot:     m.ToAggregateRoot(),
		CCPID:                 m.CCPID,
		ProductionOrderID:     m.ProductionOrderID,
		MeasuredValue:         m.MeasuredValue,
		Unit:                  m.Unit,
		MeasuredAt:            m.MeasuredAt,
		Status:                haccp.LogStatus(m.Status),
		IsWithinLimits:        m.IsWithinLimits,
		DeviationNotes:        m.DeviationNotes,
		CorrectiveActionTaken: m.CorrectiveActionTaken,
		CorrectiveActionBy:    m.CorrectiveActionBy,
		CorrectiveActionAt:    m.CorrectiveActionAt,
		VerifiedBy:            m.VerifiedBy,
		VerificationDate:      m.VerificationDate,
		MeasurementDevice:     m.MeasurementDevice,
		CreatedBy:             m.CreatedBy,
	}
}

// CCPLogModelFromDomain creates a persistence model from a domain monitoring log
func CCPLogModelFromDomain(l *haccp.CCPLog) *CCPLogModel {
	m := &CCPLogModel{
		CCPID:                 l.CCPID,
		ProductionOrderID:     l.ProductionOrderID,
		MeasuredValue:         l.MeasuredValue,
		Unit:                  l.Unit,
		MeasuredAt:            l.MeasuredAt,
		Status:                string(l.Status),
		IsWithinLimits:        l.IsWithinLimits,
		DeviationNotes:        l.DeviationNotes,
		CorrectiveActionTaken: l.CorrectiveActionTaken,
		CorrectiveActionBy:    l.CorrectiveActionBy,
		CorrectiveActionAt:    l.CorrectiveActionAt,
		VerifiedBy:            l.VerifiedBy,
		VerificationDate:      l.VerificationDate,
		MeasurementDevice:     l.MeasurementDevice,
	}
	m.FromDomainAggregateRoot(l.BaseAggregateRoot, l.CreatedBy)
	return m
}
