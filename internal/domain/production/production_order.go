package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a production order
type OrderStatus string

const (
	OrderStatusPlanned    OrderStatus = "planned"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusOnHold     OrderStatus = "on_hold"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPlanned, OrderStatusInProgress, OrderStatusOnHold, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for completed and cancelled orders
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPlanned:
		return target == OrderStatusInProgress || target == OrderStatusCancelled
	case OrderStatusInProgress:
		return target == OrderStatusCompleted || target == OrderStatusOnHold || target == OrderStatusCancelled
	case OrderStatusOnHold:
		return target == OrderStatusInProgress
	case OrderStatusCompleted, OrderStatusCancelled:
		return false
	}
	return false
}

// Priority of a production order
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Limits of a production order
const (
	MinOrderNumberLength = 3
	MaxOrderNumberLength = 50
	MaxConcurrentOrders  = 5
)

var (
	minPlannedQuantity = decimal.NewFromInt(1)
	maxPlannedQuantity = decimal.NewFromInt(1_000_000)
	overProductionCap  = decimal.NewFromFloat(1.1)
)

// ProductionOrder plans and tracks the production of a finished product
type ProductionOrder struct {
	shared.BaseAggregateRoot
	OrderNumber      string
	ProductID        uuid.UUID
	PlannedQuantity  decimal.Decimal
	ProducedQuantity decimal.Decimal
	PlannedStartDate time.Time
	PlannedEndDate   time.Time
	ActualStartDate  *time.Time
	ActualEndDate    *time.Time
	Status           OrderStatus
	Priority         Priority
	Notes            string
	AssignedOperator *uuid.UUID
	CancelReason     string
	CreatedBy        *uuid.UUID
}

// OrderPlan carries the data needed to create an order
type OrderPlan struct {
	OrderNumber      string
	ProductID        uuid.UUID
	PlannedQuantity  decimal.Decimal
	PlannedStartDate time.Time
	PlannedEndDate   time.Time
	Priority         Priority
	Notes            string
	AssignedOperator *uuid.UUID
	CreatedBy        *uuid.UUID
}

// NewProductionOrder validates the plan against now and creates a planned order
func NewProductionOrder(plan OrderPlan, now time.Time) (*ProductionOrder, error) {
	number := strings.TrimSpace(plan.OrderNumber)
	if len(number) < MinOrderNumberLength {
		return nil, shared.InvalidInput("order number must be at least %d characters", MinOrderNumberLength)
	}
	if len(number) > MaxOrderNumberLength {
		return nil, shared.InvalidInput("order number cannot exceed %d characters", MaxOrderNumberLength)
	}
	if plan.ProductID == uuid.Nil {
		return nil, shared.InvalidInput("finished product is required")
	}
	if plan.PlannedQuantity.LessThan(minPlannedQuantity) || plan.PlannedQuantity.GreaterThan(maxPlannedQuantity) {
		return nil, shared.InvalidInput("planned quantity must be between %s and %s", minPlannedQuantity, maxPlannedQuantity)
	}
	if !shared.FitsScale(plan.PlannedQuantity, shared.QuantityScale) {
		return nil, shared.InvalidInput("planned quantity cannot have more than %d decimal places", shared.QuantityScale)
	}
	if plan.PlannedStartDate.IsZero() || plan.PlannedEndDate.IsZero() {
		return nil, shared.InvalidInput("planned start and end dates are required")
	}
	if !plan.PlannedStartDate.Before(plan.PlannedEndDate) {
		return nil, shared.InvalidInput("planned end date must be after the planned start date")
	}
	if plan.PlannedStartDate.Before(now) {
		return nil, shared.InvalidInput("planned start date cannot be in the past")
	}
	priority := plan.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return nil, shared.InvalidInput("invalid priority %q", priority)
	}

	order := &ProductionOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       number,
		ProductID:         plan.ProductID,
		PlannedQuantity:   plan.PlannedQuantity,
		ProducedQuantity:  decimal.Zero,
		PlannedStartDate:  plan.PlannedStartDate,
		PlannedEndDate:    plan.PlannedEndDate,
		Status:            OrderStatusPlanned,
		Priority:          priority,
		Notes:             strings.TrimSpace(plan.Notes),
		AssignedOperator:  plan.AssignedOperator,
		CreatedBy:         plan.CreatedBy,
	}
	order.AddDomainEvent(NewProductionOrderCreatedEvent(order))
	return order, nil
}

// MaxProducibleQuantity is the over-production cap of 110% of the plan
func (o *ProductionOrder) MaxProducibleQuantity() decimal.Decimal {
	return o.PlannedQuantity.Mul(overProductionCap)
}

// Start begins production
func (o *ProductionOrder) Start(operator *uuid.UUID) error {
	if o.Status != OrderStatusPlanned {
		return shared.InvalidState("cannot start order in %s status", o.Status)
	}
	now := time.Now()
	o.Status = OrderStatusInProgress
	o.ActualStartDate = &now
	if operator != nil && o.AssignedOperator == nil {
		o.AssignedOperator = operator
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewProductionStartedEvent(o))
	return nil
}

// Complete finishes production with the produced quantity
func (o *ProductionOrder) Complete(producedQuantity decimal.Decimal, notes string) error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.InvalidState("cannot complete order in %s status", o.Status)
	}
	if err := shared.CheckQuantity("produced quantity", producedQuantity); err != nil {
		return err
	}
	if limit := o.MaxProducibleQuantity(); producedQuantity.GreaterThan(limit) {
		return shared.InvalidInput("produced quantity %s exceeds 110%% of the planned quantity (%s)", producedQuantity, limit)
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.ProducedQuantity = producedQuantity
	o.ActualEndDate = &now
	o.appendNote(notes)
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewProductionCompletedEvent(o))
	return nil
}

// Pause puts a running order on hold
func (o *ProductionOrder) Pause(reason string) error {
	if o.Status != OrderStatusInProgress {
		return shared.InvalidState("only in-progress orders can be paused, order is %s", o.Status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.InvalidInput("pause reason is required")
	}
	o.Status = OrderStatusOnHold
	o.appendNote("paused: " + reason)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewProductionPausedEvent(o, reason))
	return nil
}

// Resume continues an order on hold
func (o *ProductionOrder) Resume() error {
	if o.Status != OrderStatusOnHold {
		return shared.InvalidState("only orders on hold can be resumed, order is %s", o.Status)
	}
	o.Status = OrderStatusInProgress
	o.appendNote("resumed")
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewProductionResumedEvent(o))
	return nil
}

// Cancel stops a planned or running order
func (o *ProductionOrder) Cancel(reason string) error {
	if o.Status != OrderStatusPlanned && o.Status != OrderStatusInProgress {
		return shared.InvalidState("cannot cancel order in %s status", o.Status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.InvalidInput("cancel reason is required")
	}
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewProductionCancelledEvent(o))
	return nil
}

// Overlaps reports whether the planned window intersects [start, end)
func (o *ProductionOrder) Overlaps(start, end time.Time) bool {
	return o.PlannedStartDate.Before(end) && o.PlannedEndDate.After(start)
}

// QuantityEfficiency returns produced/planned in percent for completed orders
func (o *ProductionOrder) QuantityEfficiency() decimal.Decimal {
	if o.Status != OrderStatusCompleted || !o.PlannedQuantity.IsPositive() {
		return decimal.Zero
	}
	return o.ProducedQuantity.Div(o.PlannedQuantity).Mul(decimal.NewFromInt(100))
}

func (o *ProductionOrder) appendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if o.Notes == "" {
		o.Notes = note
		return
	}
	o.Notes = fmt.Sprintf("%s\n%s", o.Notes, note)
}
