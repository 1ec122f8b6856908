package haccp

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LogStatus is the derived state of a monitoring log
type LogStatus string

const (
	LogStatusWithinLimits     LogStatus = "within_limits"
	LogStatusOutOfLimits      LogStatus = "out_of_limits"
	LogStatusCorrectiveAction LogStatus = "corrective_action"
)

// IsValid checks if the status is known
func (s LogStatus) IsValid() bool {
	switch s {
	case LogStatusWithinLimits, LogStatusOutOfLimits, LogStatusCorrectiveAction:
		return true
	default:
		return false
	}
}

// DuplicateWindow is the distance within which two logs of one CCP collide
const DuplicateWindow = time.Minute

// CCPLog is a single monitoring measurement. Measurement data is immutable
// once recorded; only the corrective action and verification are added later.
type CCPLog struct {
	shared.BaseAggregateRoot
	CCPID                 uuid.UUID
	ProductionOrderID     *uuid.UUID
	MeasuredValue         decimal.Decimal
	Unit                  string
	MeasuredAt            time.Time
	Status                LogStatus
	IsWithinLimits        bool
	DeviationNotes        string
	CorrectiveActionTaken string
	CorrectiveActionBy    *uuid.UUID
	CorrectiveActionAt    *time.Time
	VerifiedBy            *uuid.UUID
	VerificationDate      *time.Time
	MeasurementDevice     string
	CreatedBy             *uuid.UUID
}

// Measurement carries the data of a new log
type Measurement struct {
	ProductionOrderID *uuid.UUID
	MeasuredValue     decimal.Decimal
	Unit              string
	MeasuredAt        time.Time
	DeviationNotes    string
	MeasurementDevice string
	CreatedBy         *uuid.UUID
}

// NewCCPLog records a measurement against ccp and derives its status
func NewCCPLog(ccp *CCP, m Measurement, now time.Time) (*CCPLog, error) {
	if ccp == nil {
		return nil, shared.InvalidInput("ccp is required")
	}
	if !ccp.IsActive {
		return nil, shared.InvalidState("ccp %s is inactive", ccp.Code)
	}
	if m.MeasuredAt.IsZero() {
		return nil, shared.InvalidInput("measured_at is required")
	}
	if m.MeasuredAt.After(now) {
		return nil, shared.InvalidInput("measured_at cannot be in the future")
	}
	unit := strings.TrimSpace(m.Unit)
	if unit == "" {
		return nil, shared.InvalidInput("unit is required")
	}

	within := ccp.Limits.Contains(m.MeasuredValue)
	status := LogStatusWithinLimits
	if !within {
		status = LogStatusOutOfLimits
	}

	log := &CCPLog{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CCPID:             ccp.ID,
		ProductionOrderID: m.ProductionOrderID,
		MeasuredValue:     m.MeasuredValue,
		Unit:              unit,
		MeasuredAt:        m.MeasuredAt,
		Status:            status,
		IsWithinLimits:    within,
		DeviationNotes:    strings.TrimSpace(m.DeviationNotes),
		MeasurementDevice: strings.TrimSpace(m.MeasurementDevice),
		CreatedBy:         m.CreatedBy,
	}
	log.AddDomainEvent(NewCCPLogRecordedEvent(log))
	if !within {
		log.AddDomainEvent(NewCriticalLimitViolatedEvent(log, ccp))
	}
	return log, nil
}

// RecordCorrectiveAction documents the response to an out-of-limits reading
func (l *CCPLog) RecordCorrectiveAction(action string, by *uuid.UUID) error {
	if l.Status != LogStatusOutOfLimits {
		return shared.InvalidState("corrective action requires an out_of_limits log, log is %s", l.Status)
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return shared.InvalidInput("corrective action description is required")
	}
	now := time.Now()
	l.Status = LogStatusCorrectiveAction
	l.CorrectiveActionTaken = action
	l.CorrectiveActionBy = by
	l.CorrectiveActionAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewCorrectiveActionRecordedEvent(l))
	return nil
}

// Verify signs off a corrective action
func (l *CCPLog) Verify(by *uuid.UUID) error {
	if l.Status != LogStatusCorrectiveAction {
		return shared.InvalidState("only corrective_action logs can be verified, log is %s", l.Status)
	}
	if l.IsVerified() {
		return shared.InvalidState("log is already verified")
	}
	now := time.Now()
	l.VerifiedBy = by
	l.VerificationDate = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewCCPLogVerifiedEvent(l))
	return nil
}

// IsVerified reports whether the log carries a verification date
func (l *CCPLog) IsVerified() bool {
	return l.VerificationDate != nil
}

// IsOpenDeviation reports whether the log still blocks completion of its order
func (l *CCPLog) IsOpenDeviation() bool {
	switch l.Status {
	case LogStatusOutOfLimits:
		return true
	case LogStatusCorrectiveAction:
		return !l.IsVerified()
	}
	return false
}

// CollidesWith reports whether other was measured at the same CCP within DuplicateWindow
func (l *CCPLog) CollidesWith(ccpID uuid.UUID, at time.Time) bool {
	if l.CCPID != ccpID {
		return false
	}
	d := l.MeasuredAt.Sub(at)
	if d < 0 {
		d = -d
	}
	return d <= DuplicateWindow
}
