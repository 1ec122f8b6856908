package haccp

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/shopspring/decimal"
)

// CreateCCPRequest defines a new control point
type CreateCCPRequest struct {
	Code                string
	Name                string
	Type                string
	Description         string
	ProcessStep         string
	CriticalLimitMin    *decimal.Decimal
	CriticalLimitMax    *decimal.Decimal
	MonitoringFrequency string
	CorrectiveAction    string
	ResponsiblePerson   string
	ProductID           *uuid.UUID
	CreatedBy           *uuid.UUID
}

// CCPListFilter represents filter options for the control point list
type CCPListFilter struct {
	Type      string
	IsActive  *bool
	ProductID *uuid.UUID
	Search    string
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
}

// RecordLogRequest records a monitoring measurement
type RecordLogRequest struct {
	CCPID             uuid.UUID
	ProductionOrderID *uuid.UUID
	MeasuredValue     decimal.Decimal
	Unit              string
	MeasuredAt        time.Time
	DeviationNotes    string
	MeasurementDevice string
	CreatedBy         *uuid.UUID
}

// LogListFilter represents filter options for the monitoring log list
type LogListFilter struct {
	CCPID             *uuid.UUID
	ProductionOrderID *uuid.UUID
	Status            string
	Page              int
	PageSize          int
	OrderBy           string
	OrderDir          string
}

// CCPResponse represents a control point in API responses
type CCPResponse struct {
	ID                  uuid.UUID        `json:"id"`
	Code                string           `json:"code"`
	Name                string           `json:"name"`
	Type                string           `json:"ccp_type"`
	Description         string           `json:"description"`
	ProcessStep         string           `json:"process_step"`
	CriticalLimitMin    *decimal.Decimal `json:"critical_limit_min"`
	CriticalLimitMax    *decimal.Decimal `json:"critical_limit_max"`
	MonitoringFrequency string           `json:"monitoring_frequency"`
	CorrectiveAction    string           `json:"corrective_action"`
	ResponsiblePerson   string           `json:"responsible_person"`
	ProductID           *uuid.UUID       `json:"product_id"`
	IsActive            bool             `json:"is_active"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// ToCCPResponse converts a domain control point to a response
func ToCCPResponse(c *haccp.CCP) CCPResponse {
	return CCPResponse{
		ID:                  c.ID,
		Code:                c.Code,
		Name:                c.Name,
		Type:                string(c.Type),
		Description:         c.Description,
		ProcessStep:         c.ProcessStep,
		CriticalLimitMin:    c.Limits.Min,
		CriticalLimitMax:    c.Limits.Max,
		MonitoringFrequency: c.MonitoringFrequency,
		CorrectiveAction:    c.CorrectiveAction,
		ResponsiblePerson:   c.ResponsiblePerson,
		ProductID:           c.ProductID,
		IsActive:            c.IsActive,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// LogResponse represents a monitoring log in API responses
type LogResponse struct {
	ID                    uuid.UUID       `json:"id"`
	CCPID                 uuid.UUID       `json:"ccp_id"`
	ProductionOrderID     *uuid.UUID      `json:"production_order_id"`
	MeasuredValue         decimal.Decimal `json:"measured_value"`
	Unit                  string          `json:"unit"`
	MeasuredAt            time.Time       `json:"measured_at"`
	Status                string          `json:"status"`
	IsWithinLimits        bool            `json:"is_within_limits"`
	DeviationNotes        string          `json:"deviation_notes"`
	CorrectiveActionTaken string          `json:"corrective_action_taken"`
	CorrectiveActionBy    *uuid.UUID      `json:"corrective_action_by"`
	CorrectiveActionAt    *time.Time      `json:"corrective_action_at"`
	VerifiedBy            *uuid.UUID      `json:"verified_by"`
	VerificationDate      *time.Time      `json:"verification_date"`
	MeasurementDevice     string          `json:"measurement_device"`
	CreatedBy             *uuid.UUID      `json:"created_by"`
	CreatedAt             time.Time       `json:"created_at"`
	Version               int             `json:"version"`
}

// ToLogResponse converts a domain log to a response
func ToLogResponse(l *haccp.CCPLog) LogResponse {
	return LogResponse{
		ID:                    l.ID,
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
		CreatedBy:             l.CreatedBy,
		CreatedAt:             l.CreatedAt,
		Version:               l.Version,
	}
}

// ToLogResponses converts a slice of logs
func ToLogResponses(logs []haccp.CCPLog) []LogResponse {
	responses := make([]LogResponse, len(logs))
	for i := range logs {
		responses[i] = ToLogResponse(&logs[i])
	}
	return responses
}

// AlertResponse is one critical alert
type AlertResponse struct {
	Kind       string     `json:"kind"`
	CCPID      uuid.UUID  `json:"ccp_id"`
	CCPCode    string     `json:"ccp_code"`
	CCPName    string     `json:"ccp_name"`
	LogID      *uuid.UUID `json:"log_id,omitempty"`
	Count      int        `json:"count"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// CriticalAlertsResponse groups the critical alerts of a look-back window
type CriticalAlertsResponse struct {
	Hours                 int             `json:"hours"`
	RecentViolations      int             `json:"recent_violations"`
	UnverifiedActions     int             `json:"unverified_actions"`
	RepeatedViolationCCPs int             `json:"repeated_violation_ccps"`
	Alerts                []AlertResponse `json:"alerts"`
}
