package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	costingapp "github.com/haccp/backend/internal/application/costing"
	"github.com/haccp/backend/internal/interfaces/http/dto"
)

// CostingHandler serves product cost reports, material price dossiers and
// the cost summary export
type CostingHandler struct {
	BaseHandler
	costs     *costingapp.CostService
	presenter dto.CostPresenter
}

// NewCostingHandler creates a new CostingHandler
func NewCostingHandler(costs *costingapp.CostService, presenter dto.CostPresenter) *CostingHandler {
	return &CostingHandler{costs: costs, presenter: presenter}
}

// ProductCost prices ?quantity= units of a product (default 1)
func (h *CostingHandler) ProductCost(c *gin.Context) {
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var q dto.CostQuery
	if !h.bindQuery(c, &q) {
		return
	}
	qty, err := q.ProductionQuantity()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	report, err := h.costs.GetProductCost(c.Request.Context(), productID, qty)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.presenter.Report(report))
}

// Requirements lists the stock needed to produce ?quantity= units
func (h *CostingHandler) Requirements(c *gin.Context) {
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var q dto.CostQuery
	if !h.bindQuery(c, &q) {
		return
	}
	qty, err := q.ProductionQuantity()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	report, err := h.costs.CalculateRequirements(c.Request.Context(), productID, qty)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.presenter.Requirements(report))
}

// Summary returns one cost line per active product
func (h *CostingHandler) Summary(c *gin.Context) {
	rows, err := h.costs.ProductsCostSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.presenter.Summary(rows))
}

// MaterialPriceInfo returns the pricing dossier of a material
func (h *CostingHandler) MaterialPriceInfo(c *gin.Context) {
	materialID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	info, err := h.costs.MaterialPriceInfo(c.Request.Context(), materialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.presenter.PriceInfo(info))
}

// ExportSummary renders the cost summary workbook. Archived exports answer
// with a download link; otherwise the workbook is the response body.
func (h *CostingHandler) ExportSummary(c *gin.Context) {
	result, err := h.costs.ExportCostSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.IsArchived() {
		h.Success(c, dto.ExportDTO{
			FileName:    result.FileName,
			RowCount:    result.RowCount,
			DownloadURL: result.DownloadURL,
			ExpiresAt:   result.ExpiresAt,
		})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// FlushCache drops every cached cost report
func (h *CostingHandler) FlushCache(c *gin.Context) {
	if err := h.costs.FlushCache(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
