package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haccp/backend/internal/application/inventory"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/interfaces/http/dto"
	"github.com/haccp/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

const (
	defaultExpiryWindowDays = 7
	maxExpiryWindowDays     = 365
)

// LotHandler serves the material lot ledger
type LotHandler struct {
	BaseHandler
	lots *inventory.LotService
}

// NewLotHandler creates a new LotHandler
func NewLotHandler(lots *inventory.LotService) *LotHandler {
	return &LotHandler{lots: lots}
}

// ReceiveLotRequest is the body of POST /lots
type ReceiveLotRequest struct {
	Material             dto.Ref          `json:"material"`
	Supplier             dto.Ref          `json:"supplier"`
	LotNumber            string           `json:"lot_number" binding:"required,max=100"`
	QuantityReceived     decimal.Decimal  `json:"quantity_received" binding:"decimal_gt0"`
	UnitPrice            decimal.Decimal  `json:"unit_price" binding:"decimal_gt0"`
	ReceivedDate         dto.Date         `json:"received_date"`
	ExpiryDate           *dto.Date        `json:"expiry_date"`
	QualityTestPassed    *bool            `json:"quality_test_passed"`
	QualityTestNotes     string           `json:"quality_test_notes"`
	StorageLocation      string           `json:"storage_location" binding:"max=100"`
	TemperatureAtReceipt *decimal.Decimal `json:"temperature_at_receipt"`
}

// QualityTestBody is the body of POST /lots/:id/quality-test
type QualityTestBody struct {
	Passed *bool  `json:"passed" binding:"required"`
	Notes  string `json:"notes"`
}

// MoveToStorageRequest is the body of POST /lots/:id/storage
type MoveToStorageRequest struct {
	StorageLocation string `json:"storage_location" binding:"required,max=100"`
}

// ConsumeLotBody is the body of POST /lots/:id/consume
type ConsumeLotBody struct {
	Quantity        decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	ProductionOrder dto.Ref         `json:"production_order"`
	Reference       string          `json:"reference" binding:"max=200"`
	ConsumedBy      dto.Ref         `json:"consumed_by"`
}

// ConsumeFIFOBody is the body of POST /lots/consume-fifo
type ConsumeFIFOBody struct {
	Material        dto.Ref         `json:"material"`
	Quantity        decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	ProductionOrder dto.Ref         `json:"production_order"`
	Reference       string          `json:"reference" binding:"max=200"`
	ConsumedBy      dto.Ref         `json:"consumed_by"`
}

// RetireLotBody is the body of POST /lots/:id/retire
type RetireLotBody struct {
	Status string `json:"status" binding:"required,oneof=expired rejected"`
	Reason string `json:"reason"`
}

// LotListQuery filters GET /lots
type LotListQuery struct {
	dto.ListQuery
	MaterialID    string `form:"material_id"`
	SupplierID    string `form:"supplier_id"`
	Status        string `form:"status" binding:"omitempty,oneof=received in_storage in_use used expired rejected"`
	QualityPassed *bool  `form:"quality_passed"`
}

// Receive books a delivered lot into stock
func (h *LotHandler) Receive(c *gin.Context) {
	var req ReceiveLotRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !req.Material.Valid || !req.Supplier.Valid {
		h.BadRequest(c, "material and supplier are required")
		return
	}
	received := req.ReceivedDate.Time
	if received.IsZero() {
		received = time.Now().UTC()
	}
	resp, err := h.lots.Receive(c.Request.Context(), inventory.ReceiveLotRequest{
		MaterialID:           req.Material.ID,
		SupplierID:           req.Supplier.ID,
		LotNumber:            req.LotNumber,
		QuantityReceived:     req.QuantityReceived,
		UnitPrice:            req.UnitPrice,
		ReceivedDate:         received,
		ExpiryDate:           req.ExpiryDate.Ptr(),
		QualityTestPassed:    req.QualityTestPassed,
		QualityTestNotes:     req.QualityTestNotes,
		StorageLocation:      req.StorageLocation,
		TemperatureAtReceipt: req.TemperatureAtReceipt,
		CreatedBy:            middleware.ActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one lot
func (h *LotHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.lots.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of lots
func (h *LotHandler) List(c *gin.Context) {
	var q LotListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()
	materialID, err := optionalUUID(q.MaterialID, "material_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	supplierID, err := optionalUUID(q.SupplierID, "supplier_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items, total, err := h.lots.List(c.Request.Context(), inventory.LotListFilter{
		MaterialID:    materialID,
		SupplierID:    supplierID,
		Status:        q.Status,
		QualityPassed: q.QualityPassed,
		Search:        q.Search,
		Page:          q.Page,
		PageSize:      q.PageSize,
		OrderBy:       q.OrderBy,
		OrderDir:      q.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Page, q.PageSize)
}

// ListAvailable returns the FIFO-ordered consumable lots of a material
func (h *LotHandler) ListAvailable(c *gin.Context) {
	materialID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	items, err := h.lots.ListAvailable(c.Request.Context(), materialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// RecordQualityTest stores the incoming inspection result
func (h *LotHandler) RecordQualityTest(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req QualityTestBody
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.lots.RecordQualityTest(c.Request.Context(), id, inventory.QualityTestRequest{
		Passed: *req.Passed,
		Notes:  req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MoveToStorage puts a received lot on the shelf
func (h *LotHandler) MoveToStorage(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req MoveToStorageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.lots.MoveToStorage(c.Request.Context(), id, req.StorageLocation)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Consume draws a quantity from one specific lot
func (h *LotHandler) Consume(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ConsumeLotBody
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.lots.Consume(c.Request.Context(), id, inventory.ConsumeLotRequest{
		Quantity:          req.Quantity,
		ProductionOrderID: req.ProductionOrder.Ptr(),
		Reference:         req.Reference,
		ConsumedBy:        actorOr(c, req.ConsumedBy),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ConsumeFIFO draws a quantity of a material across lots, oldest first
func (h *LotHandler) ConsumeFIFO(c *gin.Context) {
	var req ConsumeFIFOBody
	if !h.bindJSON(c, &req) {
		return
	}
	if !req.Material.Valid {
		h.BadRequest(c, "material is required")
		return
	}
	resp, err := h.lots.ConsumeFIFO(c.Request.Context(), inventory.ConsumeFIFORequest{
		MaterialID:        req.Material.ID,
		Quantity:          req.Quantity,
		ProductionOrderID: req.ProductionOrder.Ptr(),
		Reference:         req.Reference,
		ConsumedBy:        actorOr(c, req.ConsumedBy),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Retire marks a lot expired or rejected
func (h *LotHandler) Retire(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req RetireLotBody
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.lots.Retire(c.Request.Context(), id, inventory.RetireLotRequest{
		Status: req.Status,
		Reason: req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a lot that has never been consumed
func (h *LotHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.lots.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Traceability returns the full history of a lot
func (h *LotHandler) Traceability(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.lots.Traceability(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Consumptions returns the draws made from a lot
func (h *LotHandler) Consumptions(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	items, err := h.lots.ConsumptionHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// OrderConsumptions returns the draws booked against a production order
func (h *LotHandler) OrderConsumptions(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	items, err := h.lots.ConsumptionsByOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ExpiringSoon lists lots expiring within ?days= (default 7)
func (h *LotHandler) ExpiringSoon(c *gin.Context) {
	days := defaultExpiryWindowDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxExpiryWindowDays {
			h.HandleError(c, shared.InvalidInput("days must be between 1 and %d", maxExpiryWindowDays))
			return
		}
		days = n
	}
	items, err := h.lots.ExpiringSoon(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// QualitySummary returns acceptance statistics over all lots
func (h *LotHandler) QualitySummary(c *gin.Context) {
	resp, err := h.lots.QualitySummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MaterialInventory returns the stock position of one material
func (h *LotHandler) MaterialInventory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.lots.MaterialInventory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LowStock lists active materials whose available stock is below ?threshold=
func (h *LotHandler) LowStock(c *gin.Context) {
	threshold := inventory.DefaultLowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil || v.IsNegative() {
			h.HandleError(c, shared.InvalidInput("threshold must be a non-negative number"))
			return
		}
		threshold = v
	}
	items, err := h.lots.LowStock(c.Request.Context(), threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}
