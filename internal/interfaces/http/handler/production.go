package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/haccp/backend/internal/application/production"
	"github.com/haccp/backend/internal/interfaces/http/dto"
	"github.com/haccp/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// ProductionHandler serves production orders and their lifecycle
type ProductionHandler struct {
	BaseHandler
	orders *production.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(orders *production.ProductionService) *ProductionHandler {
	return &ProductionHandler{orders: orders}
}

// CreateOrderBody is the body of POST /production-orders
type CreateOrderBody struct {
	OrderNumber      string          `json:"order_number" binding:"required,min=3,max=50"`
	Product          dto.Ref         `json:"product"`
	PlannedQuantity  decimal.Decimal `json:"planned_quantity" binding:"decimal_gt0"`
	PlannedStartDate dto.Date        `json:"planned_start_date"`
	PlannedEndDate   dto.Date        `json:"planned_end_date"`
	Priority         string          `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Notes            string          `json:"notes"`
	AssignedOperator dto.Ref         `json:"assigned_operator"`
}

// StartOrderBody is the optional body of POST /production-orders/:id/start
type StartOrderBody struct {
	Operator dto.Ref `json:"operator"`
}

// CompleteOrderBody is the body of POST /production-orders/:id/complete
type CompleteOrderBody struct {
	ProducedQuantity decimal.Decimal `json:"produced_quantity" binding:"decimal_gt0"`
	Notes            string          `json:"notes"`
}

// ReasonBody carries the reason of a pause or cancellation
type ReasonBody struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListQuery filters GET /production-orders
type OrderListQuery struct {
	dto.ListQuery
	Status    string `form:"status" binding:"omitempty,oneof=planned in_progress on_hold completed cancelled"`
	Priority  string `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
	ProductID string `form:"product_id"`
}

// Create plans a production order
func (h *ProductionHandler) Create(c *gin.Context) {
	var req CreateOrderBody
	if !h.bindJSON(c, &req) {
		return
	}
	if !req.Product.Valid {
		h.BadRequest(c, "product is required")
		return
	}
	resp, err := h.orders.Create(c.Request.Context(), production.CreateOrderRequest{
		OrderNumber:      req.OrderNumber,
		ProductID:        req.Product.ID,
		PlannedQuantity:  req.PlannedQuantity,
		PlannedStartDate: req.PlannedStartDate.Time,
		PlannedEndDate:   req.PlannedEndDate.Time,
		Priority:         req.Priority,
		Notes:            req.Notes,
		AssignedOperator: req.AssignedOperator.Ptr(),
		CreatedBy:        middleware.ActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one production order
func (h *ProductionHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of production orders
func (h *ProductionHandler) List(c *gin.Context) {
	var q OrderListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()
	productID, err := optionalUUID(q.ProductID, "product_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items, total, err := h.orders.List(c.Request.Context(), production.OrderListFilter{
		Status:    q.Status,
		Priority:  q.Priority,
		ProductID: productID,
		Search:    q.Search,
		Page:      q.Page,
		PageSize:  q.PageSize,
		OrderBy:   q.OrderBy,
		OrderDir:  q.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Page, q.PageSize)
}

// Start moves a planned order into production. The operator defaults to the caller.
func (h *ProductionHandler) Start(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req StartOrderBody
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.Start(c.Request.Context(), id, actorOr(c, req.Operator))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete finishes an order and triggers material consumption
func (h *ProductionHandler) Complete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req CompleteOrderBody
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.Complete(c.Request.Context(), id, production.CompleteOrderRequest{
		ProducedQuantity: req.ProducedQuantity,
		Notes:            req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Pause puts a running order on hold
func (h *ProductionHandler) Pause(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ReasonBody
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.Pause(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Resume restarts an order on hold
func (h *ProductionHandler) Resume(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.Resume(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel abandons a planned or running order
func (h *ProductionHandler) Cancel(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ReasonBody
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
