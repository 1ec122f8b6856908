package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/haccp/backend/internal/application/catalog"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/interfaces/http/dto"
	"github.com/haccp/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// CatalogHandler serves suppliers, raw materials, finished products and
// their bills of materials
type CatalogHandler struct {
	BaseHandler
	suppliers *catalogapp.SupplierService
	materials *catalogapp.MaterialService
	products  *catalogapp.ProductService
	bom       *catalogapp.BOMService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	suppliers *catalogapp.SupplierService,
	materials *catalogapp.MaterialService,
	products *catalogapp.ProductService,
	bom *catalogapp.BOMService,
) *CatalogHandler {
	return &CatalogHandler{suppliers: suppliers, materials: materials, products: products, bom: bom}
}

// CreateSupplierRequest is the body of POST /suppliers
type CreateSupplierRequest struct {
	Code          string `json:"code" binding:"required,max=50"`
	Name          string `json:"name" binding:"required,max=200"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Email         string `json:"email" binding:"omitempty,email,max=200"`
	Phone         string `json:"phone" binding:"max=50"`
	Address       string `json:"address"`
	Certification string `json:"certification" binding:"max=200"`
}

// ChangeSupplierStatusRequest is the body of PATCH /suppliers/:id/status
type ChangeSupplierStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive suspended"`
}

// SupplierListQuery filters GET /suppliers
type SupplierListQuery struct {
	dto.ListQuery
	Status string `form:"status" binding:"omitempty,oneof=active inactive suspended"`
}

// CreateSupplier registers a supplier
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.suppliers.Create(c.Request.Context(), catalogapp.CreateSupplierRequest{
		Code:          req.Code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Certification: req.Certification,
		CreatedBy:     middleware.ActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetSupplier returns one supplier
func (h *CatalogHandler) GetSupplier(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.suppliers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSuppliers returns a page of suppliers
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	var q SupplierListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()
	items, total, err := h.suppliers.List(c.Request.Context(), catalogapp.SupplierListFilter{
		Status:   q.Status,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Page, q.PageSize)
}

// ChangeSupplierStatus activates, deactivates or suspends a supplier
func (h *CatalogHandler) ChangeSupplierStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ChangeSupplierStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.suppliers.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateMaterialRequest is the body of POST /materials
type CreateMaterialRequest struct {
	Code           string           `json:"code" binding:"required,max=50"`
	Name           string           `json:"name" binding:"required,max=200"`
	Category       string           `json:"category" binding:"required,oneof=ingredient packaging additive chemical"`
	Description    string           `json:"description"`
	Unit           string           `json:"unit" binding:"max=20"`
	StorageTempMin *decimal.Decimal `json:"storage_temp_min"`
	StorageTempMax *decimal.Decimal `json:"storage_temp_max"`
	ShelfLifeDays  *int             `json:"shelf_life_days" binding:"omitempty,min=0"`
	Allergens      string           `json:"allergens"`
	Supplier       dto.Ref          `json:"supplier"`
}

// MaterialListQuery filters GET /materials
type MaterialListQuery struct {
	dto.ListQuery
	Category   string `form:"category" binding:"omitempty,oneof=ingredient packaging additive chemical"`
	SupplierID string `form:"supplier_id"`
	IsActive   *bool  `form:"is_active"`
}

// CreateMaterial registers a raw material
func (h *CatalogHandler) CreateMaterial(c *gin.Context) {
	var req CreateMaterialRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !req.Supplier.Valid {
		h.BadRequest(c, "supplier is required")
		return
	}
	resp, err := h.materials.Create(c.Request.Context(), catalogapp.CreateMaterialRequest{
		Code:           req.Code,
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		Unit:           req.Unit,
		StorageTempMin: req.StorageTempMin,
		StorageTempMax: req.StorageTempMax,
		ShelfLifeDays:  req.ShelfLifeDays,
		Allergens:      req.Allergens,
		SupplierID:     req.Supplier.ID,
		CreatedBy:      middleware.ActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetMaterial returns one raw material
func (h *CatalogHandler) GetMaterial(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.materials.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMaterials returns a page of raw materials
func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	var q MaterialListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()
	supplierID, err := optionalUUID(q.SupplierID, "supplier_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items, total, err := h.materials.List(c.Request.Context(), catalogapp.MaterialListFilter{
		Category:   q.Category,
		SupplierID: supplierID,
		IsActive:   q.IsActive,
		Search:     q.Search,
		Page:       q.Page,
		PageSize:   q.PageSize,
		OrderBy:    q.OrderBy,
		OrderDir:   q.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Page, q.PageSize)
}

// DeactivateMaterial retires a raw material from new BOM lines
func (h *CatalogHandler) DeactivateMaterial(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.materials.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateProductRequest is the body of POST /products
type CreateProductRequest struct {
	Code           string           `json:"code" binding:"required,max=50"`
	Name           string           `json:"name" binding:"required,max=200"`
	Description    string           `json:"description"`
	Version        string           `json:"version" binding:"max=20"`
	ShelfLifeDays  int              `json:"shelf_life_days" binding:"min=0"`
	StorageTempMin *decimal.Decimal `json:"storage_temp_min"`
	StorageTempMax *decimal.Decimal `json:"storage_temp_max"`
	NetWeight      decimal.Decimal  `json:"net_weight" binding:"decimal_gte0"`
	PackagingType  string           `json:"packaging_type" binding:"max=100"`
	AllergenInfo   string           `json:"allergen_info"`
	NutritionFacts map[string]any   `json:"nutrition_facts"`
}

// ProductListQuery filters GET /products
type ProductListQuery struct {
	dto.ListQuery
	IsActive *bool `form:"is_active"`
}

// CreateProduct registers a finished product
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.products.Create(c.Request.Context(), catalogapp.CreateProductRequest{
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		Version:        req.Version,
		ShelfLifeDays:  req.ShelfLifeDays,
		StorageTempMin: req.StorageTempMin,
		StorageTempMax: req.StorageTempMax,
		NetWeight:      req.NetWeight,
		PackagingType:  req.PackagingType,
		AllergenInfo:   req.AllergenInfo,
		NutritionFacts: req.NutritionFacts,
		CreatedBy:      middleware.ActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetProduct returns one finished product
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListProducts returns a page of finished products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q ProductListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()
	items, total, err := h.products.List(c.Request.Context(), catalogapp.ProductListFilter{
		IsActive: q.IsActive,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Page, q.PageSize)
}

// DeactivateProduct takes a product out of costing and production
func (h *CatalogHandler) DeactivateProduct(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.products.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddBOMItemRequest is the body of POST /products/:id/bom
type AddBOMItemRequest struct {
	Material        dto.Ref         `json:"material"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" binding:"decimal_gt0"`
	Unit            string          `json:"unit" binding:"required,max=20"`
	Notes           string          `json:"notes"`
}

// UpdateBOMItemRequest is the body of PATCH /bom-items/:id
type UpdateBOMItemRequest struct {
	QuantityPerUnit *decimal.Decimal `json:"quantity_per_unit" binding:"omitempty,decimal_gt0"`
	Unit            *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	Notes           *string          `json:"notes"`
}

// ListBOM returns the bill of materials of a product
func (h *CatalogHandler) ListBOM(c *gin.Context) {
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	items, err := h.bom.ListByProduct(c.Request.Context(), productID, c.Query("include_inactive") == "true")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// AddBOMItem links a material to a product
func (h *CatalogHandler) AddBOMItem(c *gin.Context) {
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req AddBOMItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !req.Material.Valid {
		h.BadRequest(c, "material is required")
		return
	}
	resp, err := h.bom.AddItem(c.Request.Context(), catalogapp.AddBOMItemRequest{
		ProductID:       productID,
		MaterialID:      req.Material.ID,
		QuantityPerUnit: req.QuantityPerUnit,
		Unit:            req.Unit,
		Notes:           req.Notes,
		CreatedBy:       middleware.ActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateBOMItem changes quantity, unit or notes of a BOM line
func (h *CatalogHandler) UpdateBOMItem(c *gin.Context) {
	itemID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateBOMItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.QuantityPerUnit == nil && req.Unit == nil && req.Notes == nil {
		h.HandleError(c, shared.InvalidInput("nothing to update"))
		return
	}
	resp, err := h.bom.UpdateItem(c.Request.Context(), itemID, catalogapp.UpdateBOMItemRequest{
		QuantityPerUnit: req.QuantityPerUnit,
		Unit:            req.Unit,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveBOMItem deactivates a BOM line
func (h *CatalogHandler) RemoveBOMItem(c *gin.Context) {
	itemID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.bom.RemoveItem(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
