package haccp

import (
	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCCPLog = "CCPLog"

// Event type constants
const (
	EventTypeCCPLogRecorded           = "CCPLogRecorded"
	EventTypeCriticalLimitViolated    = "CriticalLimitViolated"
	EventTypeCorrectiveActionRecorded = "CorrectiveActionRecorded"
	EventTypeCCPLogVerified           = "CCPLogVerified"
)

// CCPLogRecordedEvent is raised for every new measurement
type CCPLogRecordedEvent struct {
	shared.BaseDomainEvent
	LogID         uuid.UUID       `json:"log_id"`
	CCPID         uuid.UUID       `json:"ccp_id"`
	MeasuredValue decimal.Decimal `json:"measured_value"`
	Status        LogStatus       `json:"status"`
}

// NewCCPLogRecordedEvent creates a new CCPLogRecordedEvent
func NewCCPLogRecordedEvent(l *CCPLog) *CCPLogRecordedEvent {
	return &CCPLogRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCCPLogRecorded, AggregateTypeCCPLog, l.ID),
		LogID:           l.ID,
		CCPID:           l.CCPID,
		MeasuredValue:   l.MeasuredValue,
		Status:          l.Status,
	}
}

// CriticalLimitViolatedEvent is raised when a measurement leaves the critical band
type CriticalLimitViolatedEvent struct {
	shared.BaseDomainEvent
	LogID             uuid.UUID       `json:"log_id"`
	CCPID             uuid.UUID       `json:"ccp_id"`
	CCPCode           string          `json:"ccp_code"`
	MeasuredValue     decimal.Decimal `json:"measured_value"`
	Deviation         decimal.Decimal `json:"deviation_percentage"`
	ProductionOrderID *uuid.UUID      `json:"production_order_id,omitempty"`
}

// NewCriticalLimitViolatedEvent creates a new CriticalLimitViolatedEvent
func NewCriticalLimitViolatedEvent(l *CCPLog, ccp *CCP) *CriticalLimitViolatedEvent {
	return &CriticalLimitViolatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeCriticalLimitViolated, AggregateTypeCCPLog, l.ID),
		LogID:             l.ID,
		CCPID:             ccp.ID,
		CCPCode:           ccp.Code,
		MeasuredValue:     l.MeasuredValue,
		Deviation:         ccp.Limits.Deviation(l.MeasuredValue),
		ProductionOrderID: l.ProductionOrderID,
	}
}

// CorrectiveActionRecordedEvent is raised when a deviation gets a corrective action
type CorrectiveActionRecordedEvent struct {
	shared.BaseDomainEvent
	LogID  uuid.UUID `json:"log_id"`
	CCPID  uuid.UUID `json:"ccp_id"`
	Action string    `json:"action"`
}

// NewCorrectiveActionRecordedEvent creates a new CorrectiveActionRecordedEvent
func NewCorrectiveActionRecordedEvent(l *CCPLog) *CorrectiveActionRecordedEvent {
	return &CorrectiveActionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCorrectiveActionRecorded, AggregateTypeCCPLog, l.ID),
		LogID:           l.ID,
		CCPID:           l.CCPID,
		Action:          l.CorrectiveActionTaken,
	}
}

// CCPLogVerifiedEvent is raised when a corrective action is signed off
type CCPLogVerifiedEvent struct {
	shared.BaseDomainEvent
	LogID uuid.UUID `json:"log_id"`
	CCPID uuid.UUID `json:"ccp_id"`
}

// NewCCPLogVerifiedEvent creates a new CCPLogVerifiedEvent
func NewCCPLogVerifiedEvent(l *CCPLog) *CCPLogVerifiedEvent {
	return &CCPLogVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCCPLogVerified, AggregateTypeCCPLog, l.ID),
		LogID:           l.ID,
		CCPID:           l.CCPID,
	}
}
