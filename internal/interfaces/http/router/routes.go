package router

import "github.com/haccp/backend/internal/interfaces/http/handler"

// Handlers bundles the HTTP handlers of every resource
type Handlers struct {
	System     *handler.SystemHandler
	Catalog    *handler.CatalogHandler
	Lots       *handler.LotHandler
	Costing    *handler.CostingHandler
	Production *handler.ProductionHandler
	HACCP      *handler.HACCPHandler
}

// APIRoutes returns the registrars of the versioned API
func APIRoutes(h Handlers) []RouteRegistrar {
	suppliers := NewDomainGroup("/suppliers").
		POST("", h.Catalog.CreateSupplier).
		GET("", h.Catalog.ListSuppliers).
		GET("/:id", h.Catalog.GetSupplier).
		PATCH("/:id/status", h.Catalog.ChangeSupplierStatus)

	materials := NewDomainGroup("/materials").
		POST("", h.Catalog.CreateMaterial).
		GET("", h.Catalog.ListMaterials).
		GET("/low-stock", h.Lots.LowStock).
		GET("/:id", h.Catalog.GetMaterial).
		POST("/:id/deactivate", h.Catalog.DeactivateMaterial).
		GET("/:id/inventory", h.Lots.MaterialInventory).
		GET("/:id/available-lots", h.Lots.ListAvailable).
		GET("/:id/price-info", h.Costing.MaterialPriceInfo)

	products := NewDomainGroup("/products").
		POST("", h.Catalog.CreateProduct).
		GET("", h.Catalog.ListProducts).
		GET("/:id", h.Catalog.GetProduct).
		POST("/:id/deactivate", h.Catalog.DeactivateProduct).
		GET("/:id/bom", h.Catalog.ListBOM).
		POST("/:id/bom", h.Catalog.AddBOMItem).
		GET("/:id/cost", h.Costing.ProductCost).
		GET("/:id/requirements", h.Costing.Requirements)

	bomItems := NewDomainGroup("/bom-items").
		PATCH("/:id", h.Catalog.UpdateBOMItem).
		DELETE("/:id", h.Catalog.RemoveBOMItem)

	lots := NewDomainGroup("/lots").
		POST("", h.Lots.Receive).
		GET("", h.Lots.List).
		POST("/consume-fifo", h.Lots.ConsumeFIFO).
		GET("/expiring", h.Lots.ExpiringSoon).
		GET("/quality-summary", h.Lots.QualitySummary).
		GET("/:id", h.Lots.Get).
		DELETE("/:id", h.Lots.Delete).
		GET("/:id/traceability", h.Lots.Traceability).
		GET("/:id/consumptions", h.Lots.Consumptions).
		POST("/:id/quality-test", h.Lots.RecordQualityTest).
		POST("/:id/storage", h.Lots.MoveToStorage).
		POST("/:id/consume", h.Lots.Consume).
		POST("/:id/retire", h.Lots.Retire)

	costing := NewDomainGroup("/costing").
		GET("/summary", h.Costing.Summary).
		GET("/summary/export", h.Costing.ExportSummary).
		POST("/cache/flush", h.Costing.FlushCache)

	orders := NewDomainGroup("/production-orders").
		POST("", h.Production.Create).
		GET("", h.Production.List).
		GET("/:id", h.Production.Get).
		GET("/:id/consumptions", h.Lots.OrderConsumptions).
		POST("/:id/start", h.Production.Start).
		POST("/:id/complete", h.Production.Complete).
		POST("/:id/pause", h.Production.Pause).
		POST("/:id/resume", h.Production.Resume).
		POST("/:id/cancel", h.Production.Cancel)

	haccp := NewDomainGroup("/haccp")
	haccp.Group("/ccps").
		POST("", h.HACCP.CreateCCP).
		GET("", h.HACCP.ListCCPs).
		GET("/:id", h.HACCP.GetCCP)
	haccp.Group("/logs").
		POST("", h.HACCP.RecordLog).
		GET("", h.HACCP.ListLogs).
		GET("/pending-actions", h.HACCP.PendingActions).
		GET("/verification-needed", h.HACCP.VerificationNeeded).
		GET("/:id", h.HACCP.GetLog).
		POST("/:id/corrective-action", h.HACCP.RecordCorrectiveAction).
		POST("/:id/verify", h.HACCP.Verify)
	haccp.GET("/alerts", h.HACCP.CriticalAlerts)

	system := NewDomainGroup("/system").
		GET("/info", h.System.Info)

	return []RouteRegistrar{suppliers, materials, products, bomItems, lots, costing, orders, haccp, system}
}
