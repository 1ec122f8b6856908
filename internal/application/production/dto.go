package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest plans a new production order
type CreateOrderRequest struct {
	OrderNumber      string
	ProductID        uuid.UUID
	PlannedQuantity  decimal.Decimal
	PlannedStartDate time.Time
	PlannedEndDate   time.Time
	Priority         string
	Notes            string
	AssignedOperator *uuid.UUID
	CreatedBy        *uuid.UUID
}

// CompleteOrderRequest finishes an order
type CompleteOrderRequest struct {
	ProducedQuantity decimal.Decimal
	Notes            string
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status    string
	Priority  string
	ProductID *uuid.UUID
	Search    string
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
}

// OrderResponse represents a production order in API responses
type OrderResponse struct {
	ID                    uuid.UUID       `json:"id"`
	OrderNumber           string          `json:"order_number"`
	ProductID             uuid.UUID       `json:"product_id"`
	PlannedQuantity       decimal.Decimal `json:"planned_quantity"`
	ProducedQuantity      decimal.Decimal `json:"produced_quantity"`
	MaxProducibleQuantity decimal.Decimal `json:"max_producible_quantity"`
	QuantityEfficiency    decimal.Decimal `json:"quantity_efficiency"`
	PlannedStartDate      time.Time       `json:"planned_start_date"`
	PlannedEndDate        time.Time       `json:"planned_end_date"`
	ActualStartDate       *time.Time      `json:"actual_start_date"`
	ActualEndDate         *time.Time      `json:"actual_end_date"`
	Status                string          `json:"status"`
	Priority              string          `json:"priority"`
	Notes                 string          `json:"notes"`
	AssignedOperator      *uuid.UUID      `json:"assigned_operator"`
	CancelReason          string          `json:"cancel_reason,omitempty"`
	CreatedBy             *uuid.UUID      `json:"created_by"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Version               int             `json:"version"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *production.ProductionOrder) OrderResponse {
	return OrderResponse{
		ID:                    o.ID,
		OrderNumber:           o.OrderNumber,
		ProductID:             o.ProductID,
		PlannedQuantity:       o.PlannedQuantity,
		ProducedQuantity:      o.ProducedQuantity,
		MaxProducibleQuantity: o.MaxProducibleQuantity(),
		QuantityEfficiency:    o.QuantityEfficiency(),
		PlannedStartDate:      o.PlannedStartDate,
		PlannedEndDate:        o.PlannedEndDate,
		ActualStartDate:       o.ActualStartDate,
		ActualEndDate:         o.ActualEndDate,
		Status:                string(o.Status),
		Priority:              string(o.Priority),
		Notes:                 o.Notes,
		AssignedOperator:      o.AssignedOperator,
		CancelReason:          o.CancelReason,
		CreatedBy:             o.CreatedBy,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
		Version:               o.Version,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []production.ProductionOrder) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
