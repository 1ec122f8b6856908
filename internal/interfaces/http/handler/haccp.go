package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/haccp/backend/internal/application/haccp"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/interfaces/http/dto"
	"github.com/haccp/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

const maxAlertWindowHours = 24 * 30

// HACCPHandler serves critical control points and their monitoring logs
type HACCPHandler struct {
	BaseHandler
	haccp *haccp.HACCPService
}

// NewHACCPHandler creates a new HACCPHandler
func NewHACCPHandler(svc *haccp.HACCPService) *HACCPHandler {
	return &HACCPHandler{haccp: svc}
}

// CreateCCPBody is the body of POST /haccp/ccps
type CreateCCPBody struct {
	Code                string           `json:"code" binding:"required,max=50"`
	Name                string           `json:"name" binding:"required,max=200"`
	Type                string           `json:"type" binding:"required,oneof=temperature ph time pressure visual metal_detection weight"`
	Description         string           `json:"description"`
	ProcessStep         string           `json:"process_step" binding:"required,max=200"`
	CriticalLimitMin    *decimal.Decimal `json:"critical_limit_min"`
	CriticalLimitMax    *decimal.Decimal `json:"critical_limit_max"`
	MonitoringFrequency string           `json:"monitoring_frequency" binding:"max=100"`
	CorrectiveAction    string           `json:"corrective_action"`
	ResponsiblePerson   string           `json:"responsible_person" binding:"max=100"`
	Product             dto.Ref          `json:"product"`
}

// RecordLogBody is the body of POST /haccp/logs
type RecordLogBody struct {
	CCP               dto.Ref         `json:"ccp"`
	ProductionOrder   dto.Ref         `json:"production_order"`
	MeasuredValue     decimal.Decimal `json:"measured_value"`
	Unit              string          `json:"unit" binding:"required,max=20"`
	MeasuredAt        dto.Date        `json:"measured_at"`
	DeviationNotes    string          `json:"deviation_notes"`
	MeasurementDevice string          `json:"measurement_device" binding:"max=100"`
}

// CorrectiveActionBody is the body of POST /haccp/logs/:id/corrective-action
type CorrectiveActionBody struct {
	Action string `json:"action" binding:"required"`
}

// CCPListQuery filters GET /haccp/ccps
type CCPListQuery struct {
	dto.ListQuery
	Type      string `form:"type"`
	IsActive  *bool  `form:"is_active"`
	ProductID string `form:"product_id"`
}

// LogListQuery filters GET /haccp/logs
type LogListQuery struct {
	dto.ListQuery
	CCPID             string `form:"ccp_id"`
	ProductionOrderID string `form:"production_order_id"`
	Status            string `form:"status" binding:"omitempty,oneof=within_limits out_of_limits corrective_action"`
}

// CreateCCP defines a critical control point
func (h *HACCPHandler) CreateCCP(c *gin.Context) {
	var req CreateCCPBody
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.haccp.CreateCCP(c.Request.Context(), haccp.CreateCCPRequest{
		Code:                req.Code,
		Name:                req.Name,
		Type:                req.Type,
		Description:         req.Description,
		ProcessStep:         req.ProcessStep,
		CriticalLimitMin:    req.CriticalLimitMin,
		CriticalLimitMax:    req.CriticalLimitMax,
		MonitoringFrequency: req.MonitoringFrequency,
		CorrectiveAction:    req.CorrectiveAction,
		ResponsiblePerson:   req.ResponsiblePerson,
		ProductID:           req.Product.Ptr(),
		CreatedBy:           middleware.ActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCCP returns one critical control point
func (h *HACCPHandler) GetCCP(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.haccp.GetCCP(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCCPs returns a page of critical control points
func (h *HACCPHandler) ListCCPs(c *gin.Context) {
	var q CCPListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()
	productID, err := optionalUUID(q.ProductID, "product_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items, total, err := h.haccp.ListCCPs(c.Request.Context(), haccp.CCPListFilter{
		Type:      q.Type,
		IsActive:  q.IsActive,
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

// RecordLog stores one CCP measurement
func (h *HACCPHandler) RecordLog(c *gin.Context) {
	var req RecordLogBody
	if !h.bindJSON(c, &req) {
		return
	}
	if !req.CCP.Valid {
		h.BadRequest(c, "ccp is required")
		return
	}
	if req.MeasuredAt.IsZero() {
		h.BadRequest(c, "measured_at is required")
		return
	}
	resp, err := h.haccp.RecordLog(c.Request.Context(), haccp.RecordLogRequest{
		CCPID:             req.CCP.ID,
		ProductionOrderID: req.ProductionOrder.Ptr(),
		MeasuredValue:     req.MeasuredValue,
		Unit:              req.Unit,
		MeasuredAt:        req.MeasuredAt.Time,
		DeviationNotes:    req.DeviationNotes,
		MeasurementDevice: req.MeasurementDevice,
		CreatedBy:         middleware.ActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetLog returns one monitoring log
func (h *HACCPHandler) GetLog(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.haccp.GetLog(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListLogs returns a page of monitoring logs
func (h *HACCPHandler) ListLogs(c *gin.Context) {
	var q LogListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()
	ccpID, err := optionalUUID(q.CCPID, "ccp_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := optionalUUID(q.ProductionOrderID, "production_order_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items, total, err := h.haccp.ListLogs(c.Request.Context(), haccp.LogListFilter{
		CCPID:             ccpID,
		ProductionOrderID: orderID,
		Status:            q.Status,
		Page:              q.Page,
		PageSize:          q.PageSize,
		OrderBy:           q.OrderBy,
		OrderDir:          q.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Page, q.PageSize)
}

// RecordCorrectiveAction answers a deviation
func (h *HACCPHandler) RecordCorrectiveAction(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req CorrectiveActionBody
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.haccp.RecordCorrectiveAction(c.Request.Context(), id, req.Action, middleware.ActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Verify signs off a corrective action
func (h *HACCPHandler) Verify(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.haccp.Verify(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PendingActions lists deviations still waiting for a corrective action
func (h *HACCPHandler) PendingActions(c *gin.Context) {
	items, err := h.haccp.PendingActions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// VerificationNeeded lists corrective actions not yet verified
func (h *HACCPHandler) VerificationNeeded(c *gin.Context) {
	items, err := h.haccp.VerificationNeeded(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// CriticalAlerts summarizes violations within ?hours= (default 24)
func (h *HACCPHandler) CriticalAlerts(c *gin.Context) {
	hours := 0
	if raw := c.Query("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAlertWindowHours {
			h.HandleError(c, shared.InvalidInput("hours must be between 1 and %d", maxAlertWindowHours))
			return
		}
		hours = n
	}
	resp, err := h.haccp.CriticalAlerts(c.Request.Context(), hours)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
