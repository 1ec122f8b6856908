package haccp

import (
	"strings"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CCPType is the kind of measurement a control point monitors
type CCPType string

const (
	CCPTypeTemperature    CCPType = "temperature"
	CCPTypePH             CCPType = "ph"
	CCPTypeTime           CCPType = "time"
	CCPTypePressure       CCPType = "pressure"
	CCPTypeVisual         CCPType = "visual"
	CCPTypeMetalDetection CCPType = "metal_detection"
	CCPTypeWeight         CCPType = "weight"
)

// IsValid checks if the type is known
func (t CCPType) IsValid() bool {
	switch t {
	case CCPTypeTemperature, CCPTypePH, CCPTypeTime, CCPTypePressure,
		CCPTypeVisual, CCPTypeMetalDetection, CCPTypeWeight:
		return true
	default:
		return false
	}
}

// CriticalLimits is the accepted band of a measured value. Either bound may be open.
type CriticalLimits struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Validate checks min <= max when both are set
func (l CriticalLimits) Validate() error {
	if l.Min != nil && l.Max != nil && l.Min.GreaterThan(*l.Max) {
		return shared.InvalidInput("critical limit min %s is greater than max %s", l.Min, l.Max)
	}
	return nil
}

// Contains reports whether value lies within the band, bounds inclusive
func (l CriticalLimits) Contains(value decimal.Decimal) bool {
	if l.Min != nil && value.LessThan(*l.Min) {
		return false
	}
	if l.Max != nil && value.GreaterThan(*l.Max) {
		return false
	}
	return true
}

// Deviation returns the signed distance from the violated bound in percent.
// Negative below min, positive above max, zero inside the band or on a zero bound.
func (l CriticalLimits) Deviation(value decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if l.Min != nil && value.LessThan(*l.Min) && !l.Min.IsZero() {
		return l.Min.Sub(value).Div(*l.Min).Mul(hundred).Neg().Round(2)
	}
	if l.Max != nil && value.GreaterThan(*l.Max) && !l.Max.IsZero() {
		return value.Sub(*l.Max).Div(*l.Max).Mul(hundred).Round(2)
	}
	return decimal.Zero
}

// CCP is a critical control point definition
type CCP struct {
	shared.BaseAggregateRoot
	Code                string
	Name                string
	Type                CCPType
	Description         string
	ProcessStep         string
	Limits              CriticalLimits
	MonitoringFrequency string
	CorrectiveAction    string
	ResponsiblePerson   string
	ProductID           *uuid.UUID
	IsActive            bool
	CreatedBy           *uuid.UUID
}

// CCPDefinition carries the data needed to define a control point
type CCPDefinition struct {
	Code                string
	Name                string
	Type                CCPType
	Description         string
	ProcessStep         string
	Limits              CriticalLimits
	MonitoringFrequency string
	CorrectiveAction    string
	ResponsiblePerson   string
	ProductID           *uuid.UUID
	CreatedBy           *uuid.UUID
}

// NewCCP validates and creates an active control point
func NewCCP(def CCPDefinition) (*CCP, error) {
	code := strings.ToUpper(strings.TrimSpace(def.Code))
	if code == "" {
		return nil, shared.InvalidInput("ccp code cannot be empty")
	}
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, shared.InvalidInput("ccp name cannot be empty")
	}
	if !def.Type.IsValid() {
		return nil, shared.InvalidInput("invalid ccp type %q", def.Type)
	}
	if err := def.Limits.Validate(); err != nil {
		return nil, err
	}

	return &CCP{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Code:                code,
		Name:                name,
		Type:                def.Type,
		Description:         def.Description,
		ProcessStep:         def.ProcessStep,
		Limits:              def.Limits,
		MonitoringFrequency: def.MonitoringFrequency,
		CorrectiveAction:    def.CorrectiveAction,
		ResponsiblePerson:   def.ResponsiblePerson,
		ProductID:           def.ProductID,
		IsActive:            true,
		CreatedBy:           def.CreatedBy,
	}, nil
}

// Deactivate stops the control point from accepting new logs
func (c *CCP) Deactivate() {
	if !c.IsActive {
		return
	}
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
}
