// Package app assembles repositories, services, event subscriptions and HTTP
// handlers into a runnable service.
package app

import (
	"time"

	catalogapp "github.com/haccp/backend/internal/application/catalog"
	costingapp "github.com/haccp/backend/internal/application/costing"
	haccpapp "github.com/haccp/backend/internal/application/haccp"
	"github.com/haccp/backend/internal/application/inventory"
	productionapp "github.com/haccp/backend/internal/application/production"
	"github.com/haccp/backend/internal/domain/costing"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/infrastructure/config"
	"github.com/haccp/backend/internal/infrastructure/event"
	"github.com/haccp/backend/internal/infrastructure/persistence"
	"github.com/haccp/backend/internal/interfaces/http/dto"
	"github.com/haccp/backend/internal/interfaces/http/handler"
	"github.com/haccp/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options carries the optional collaborators of the container
type Options struct {
	Logger  *zap.Logger
	Costing config.CostingConfig

	// Cache holds cost reports; nil disables caching
	Cache       costingapp.CostReportCache
	CostMetrics costingapp.CostMetrics

	// Renderer enables the cost summary export; Archive uploads it
	Renderer    costingapp.SummaryRenderer
	Archive     costingapp.ReportArchive
	DownloadTTL time.Duration

	// Subscribers receive every event type they declare
	Subscribers []shared.EventHandler

	// Clock overrides time.Now in every service
	Clock func() time.Time
}

// Services are the application services of the engine
type Services struct {
	Suppliers  *catalogapp.SupplierService
	Materials  *catalogapp.MaterialService
	Products   *catalogapp.ProductService
	BOM        *catalogapp.BOMService
	Lots       *inventory.LotService
	Costs      *costingapp.CostService
	Production *productionapp.ProductionService
	HACCP      *haccpapp.HACCPService
}

// Container owns the wired object graph
type Container struct {
	DB       *gorm.DB
	Bus      *event.InMemoryEventBus
	Services Services
	costing  config.CostingConfig
}

// NewContainer wires repositories over db, the services on top of them and
// the in-process event subscriptions
func NewContainer(db *gorm.DB, opts Options) *Container {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	supplierRepo := persistence.NewGormSupplierRepository(db)
	materialRepo := persistence.NewGormRawMaterialRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	bomRepo := persistence.NewGormBOMRepository(db)
	lotRepo := persistence.NewGormMaterialLotRepository(db)
	consumptionRepo := persistence.NewGormLotConsumptionRepository(db)
	orderRepo := persistence.NewGormProductionOrderRepository(db)
	ccpRepo := persistence.NewGormCCPRepository(db)
	ccpLogRepo := persistence.NewGormCCPLogRepository(db)

	bus := event.NewInMemoryEventBus(log.Named("events"))

	var resolverOpts []costing.ResolverOption
	if opts.Costing.RecentWindowDays > 0 {
		resolverOpts = append(resolverOpts, costing.WithRecentWindowDays(opts.Costing.RecentWindowDays))
	}
	aggregator := costing.NewCostAggregator(costing.NewPricingResolver(resolverOpts...))

	svc := Services{
		Suppliers: catalogapp.NewSupplierService(supplierRepo, log),
		Materials: catalogapp.NewMaterialService(materialRepo, supplierRepo, log),
		Products:  catalogapp.NewProductService(productRepo, bomRepo, log),
		BOM:       catalogapp.NewBOMService(bomRepo, productRepo, materialRepo, log),
		Lots: inventory.NewLotService(materialRepo, supplierRepo, lotRepo, consumptionRepo,
			persistence.NewGormTransactionScope(db), log),
		Costs: costingapp.NewCostService(productRepo, bomRepo, materialRepo,
			persistence.NewGormSnapshotScope(db), aggregator, log),
		Production: productionapp.NewProductionService(orderRepo, productRepo, ccpLogRepo, log),
		HACCP:      haccpapp.NewHACCPService(ccpRepo, ccpLogRepo, productRepo, orderRepo, log),
	}

	svc.Products.SetEventPublisher(bus)
	svc.BOM.SetEventPublisher(bus)
	svc.Lots.SetEventPublisher(bus)
	svc.Production.SetEventPublisher(bus)
	svc.HACCP.SetEventPublisher(bus)

	if opts.Cache != nil {
		svc.Costs.SetCache(opts.Cache, opts.Costing.CacheTTL)
		bus.Subscribe(costingapp.NewCostCacheInvalidator(opts.Cache, log))
	}
	if opts.CostMetrics != nil {
		svc.Costs.SetMetrics(opts.CostMetrics)
	}
	if opts.Renderer != nil {
		svc.Costs.SetExporter(opts.Renderer, opts.Archive, opts.DownloadTTL)
	}
	bus.Subscribe(productionapp.NewProductionCompletedHandler(bomRepo, svc.Lots, log))
	for _, sub := range opts.Subscribers {
		bus.Subscribe(sub)
	}

	if opts.Clock != nil {
		svc.Lots.SetClock(opts.Clock)
		svc.Costs.SetClock(opts.Clock)
		svc.Production.SetClock(opts.Clock)
		svc.HACCP.SetClock(opts.Clock)
	}

	return &Container{DB: db, Bus: bus, Services: svc, costing: opts.Costing}
}

// Handlers builds the HTTP handlers over the services. checks feeds /health.
func (c *Container) Handlers(name, version string, checks map[string]handler.Pinger) router.Handlers {
	presenter := dto.NewCostPresenter(c.costing.PricePrecision, c.costing.QuantityPrecision)
	return router.Handlers{
		System:     handler.NewSystemHandler(name, version, checks),
		Catalog:    handler.NewCatalogHandler(c.Services.Suppliers, c.Services.Materials, c.Services.Products, c.Services.BOM),
		Lots:       handler.NewLotHandler(c.Services.Lots),
		Costing:    handler.NewCostingHandler(c.Services.Costs, presenter),
		Production: handler.NewProductionHandler(c.Services.Production),
		HACCP:      handler.NewHACCPHandler(c.Services.HACCP),
	}
}
