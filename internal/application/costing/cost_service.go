package costing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/costing"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Defaults for cached reports and archived exports
const (
	DefaultCacheTTL      = 5 * time.Minute
	DefaultDownloadTTL   = 15 * time.Minute
	archivePrefix        = "reports/costing/"
	exportTimestampStyle = "20060102-150405"
)

// CostService derives product costs from active BOM lines and the lot ledger.
// It only reads lots; consumption goes through the inventory service.
type CostService struct {
	productRepo  product.ProductRepository
	bomRepo      product.BOMRepository
	materialRepo material.RawMaterialRepository
	snapshot     LotSnapshotScope
	aggregator   *costing.CostAggregator
	cache        CostReportCache
	cacheTTL     time.Duration
	metrics      CostMetrics
	renderer     SummaryRenderer
	archive      ReportArchive
	downloadTTL  time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewCostService creates a new CostService
func NewCostService(
	productRepo product.ProductRepository,
	bomRepo product.BOMRepository,
	materialRepo material.RawMaterialRepository,
	snapshot LotSnapshotScope,
	aggregator *costing.CostAggregator,
	logger *zap.Logger,
) *CostService {
	if aggregator == nil {
		aggregator = costing.NewCostAggregator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostService{
		productRepo:  productRepo,
		bomRepo:      bomRepo,
		materialRepo: materialRepo,
		snapshot:     snapshot,
		aggregator:   aggregator,
		cacheTTL:     DefaultCacheTTL,
		metrics:      noopMetrics{},
		downloadTTL:  DefaultDownloadTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// SetCache enables report caching. A non-positive ttl keeps the default.
func (s *CostService) SetCache(cache CostReportCache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// SetMetrics sets the metrics recorder
func (s *CostService) SetMetrics(metrics CostMetrics) {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	s.metrics = metrics
}

// SetExporter configures summary export. archive may be nil, in which case
// exports are returned inline.
func (s *CostService) SetExporter(renderer SummaryRenderer, archive ReportArchive, downloadTTL time.Duration) {
	s.renderer = renderer
	s.archive = archive
	if downloadTTL > 0 {
		s.downloadTTL = downloadTTL
	}
}

// SetClock overrides the clock used for pricing decisions
func (s *CostService) SetClock(now func() time.Time) {
	s.now = now
}

// GetProductCost prices productionQuantity units of a product
func (s *CostService) GetProductCost(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (*costing.CostReport, error) {
	if !quantity.IsPositive() {
		return nil, shared.InvalidInput("production quantity must be greater than zero")
	}

	if cached := s.cachedReport(ctx, productID, quantity); cached != nil {
		return cached, nil
	}

	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	items, err := s.bomRepo.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	lines, err := s.loadCostLines(ctx, items)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	report, err := s.aggregator.Calculate(productRef(p), lines, quantity, s.now())
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCostCalculation(ctx, report.CalculationMethod, len(lines), time.Since(started))

	if report.CalculationMethod.IsFallback() {
		s.logger.Debug("Product cost priced with fallback",
			zap.String("product_code", p.Code),
			zap.String("method", report.CalculationMethod.String()),
			zap.Int("warnings", len(report.Warnings)))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, report, s.reportTTL(report.CalculatedAt)); err != nil {
			s.logger.Warn("Failed to cache cost report",
				zap.String("product_id", productID.String()),
				zap.Error(err))
		}
	}
	return report, nil
}

// ProductsCostSummary prices one unit of every active product. A product that
// fails is reported as an error row instead of failing the summary.
func (s *CostService) ProductsCostSummary(ctx context.Context) ([]CostSummaryRow, error) {
	products, err := s.productRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]CostSummaryRow, 0, len(products))
	for i := range products {
		p := &products[i]
		row := CostSummaryRow{
			ProductID:   p.ID,
			ProductCode: p.Code,
			ProductName: p.Name,
			UnitCost:    decimal.Zero,
		}

		report, err := s.GetProductCost(ctx, p.ID, decimal.NewFromInt(1))
		if err != nil {
			s.logger.Warn("Cost summary row failed",
				zap.String("product_code", p.Code),
				zap.Error(err))
			row.CalculationMethod = MethodError
			row.BOMMissing = true
			row.HasWarnings = true
			row.Error = err.Error()
			rows = append(rows, row)
			continue
		}

		row.UnitCost = report.UnitCost
		row.CalculationMethod = report.CalculationMethod.String()
		row.BOMMissing = report.BOMMissing
		row.HasWarnings = report.HasWarnings()
		row.MaterialCount = len(report.MaterialCosts)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ProductCode < rows[j].ProductCode
	})
	return rows, nil
}

// MaterialPriceInfo returns the stock, price statistics and resolved unit price of a material
func (s *CostService) MaterialPriceInfo(ctx context.Context, materialID uuid.UUID) (*MaterialPriceInfo, error) {
	m, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}

	var lots []material.MaterialLot
	err = s.snapshot.ReadOnly(ctx, func(repo material.MaterialLotRepository) error {
		var findErr error
		lots, findErr = repo.FindByMaterial(ctx, materialID)
		return findErr
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	resolver := s.aggregator.Resolver()
	available := material.AvailableLots(lots, now)

	inventory := InventorySnapshot{
		AvailableLots: len(available),
		TotalQuantity: material.TotalQuantity(available),
	}
	if len(available) > 0 {
		price := available[0].UnitPrice
		inventory.NextLotNumber = available[0].LotNumber
		inventory.NextLotPrice = &price
	}

	quote := resolver.Resolve(lots, decimal.NewFromInt(1), now)
	return &MaterialPriceInfo{
		Material:         materialRef(m),
		Inventory:        inventory,
		RecentWindowDays: resolver.RecentWindowDays(),
		Recent:           costing.ComputePriceStats(lots, resolver.RecentWindowStart(now)),
		AllTime:          costing.ComputePriceStats(lots, time.Time{}),
		UnitPrice:        quote.UnitPrice,
		PriceMethod:      quote.Method,
		Warnings:         quote.Warnings,
		CalculatedAt:     now,
	}, nil
}

// CalculateRequirements lists the material each active BOM line needs for a
// production quantity against what is currently available
func (s *CostService) CalculateRequirements(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (*RequirementsReport, error) {
	if !quantity.IsPositive() {
		return nil, shared.InvalidInput("production quantity must be greater than zero")
	}
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	items, err := s.bomRepo.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	lines, err := s.loadCostLines(ctx, items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &RequirementsReport{
		Product:            productRef(p),
		ProductionQuantity: quantity,
		BOMMissing:         len(lines) == 0,
		Requirements:       make([]MaterialRequirement, 0, len(lines)),
	}
	for _, line := range lines {
		required := line.QuantityPerUnit.Mul(quantity)
		available := material.TotalQuantity(material.AvailableLots(line.Lots, now))
		report.Requirements = append(report.Requirements, MaterialRequirement{
			Material:          line.Material,
			Unit:              line.Unit,
			QuantityPerUnit:   line.QuantityPerUnit,
			RequiredQuantity:  required,
			AvailableQuantity: available,
			Shortage:          decimal.Max(required.Sub(available), decimal.Zero),
		})
	}
	return report, nil
}

// ExportCostSummary renders the cost summary. With an archive configured the
// document is uploaded and a presigned link is returned.
func (s *CostService) ExportCostSummary(ctx context.Context) (*ExportResult, error) {
	if s.renderer == nil {
		return nil, shared.InvalidState("cost summary export is not configured")
	}

	rows, err := s.ProductsCostSummary(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	body, err := s.renderer.RenderCostSummary(rows, now)
	if err != nil {
		return nil, fmt.Errorf("render cost summary: %w", err)
	}

	result := &ExportResult{
		FileName:    fmt.Sprintf("cost-summary-%s.%s", now.Format(exportTimestampStyle), s.renderer.FileExtension()),
		ContentType: s.renderer.ContentType(),
		RowCount:    len(rows),
	}
	if s.archive == nil {
		result.Content = body
		return result, nil
	}

	key := archivePrefix + result.FileName
	if err := s.archive.PutObject(ctx, key, result.ContentType, body); err != nil {
		return nil, fmt.Errorf("archive cost summary: %w", err)
	}
	url, expiresAt, err := s.archive.PresignDownload(ctx, key, s.downloadTTL)
	if err != nil {
		return nil, fmt.Errorf("presign cost summary: %w", err)
	}
	result.DownloadURL = url
	result.ExpiresAt = &expiresAt

	s.logger.Info("Cost summary archived",
		zap.String("key", key),
		zap.Int("rows", len(rows)))
	return result, nil
}

// FlushCache drops every cached report
func (s *CostService) FlushCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Flush(ctx)
}

// reportTTL caps the cache lifetime at the next midnight, when lots may
// expire and drop out of the current_lot tier
func (s *CostService) reportTTL(calculatedAt time.Time) time.Duration {
	untilMidnight := material.DateOf(calculatedAt).AddDate(0, 0, 1).Sub(calculatedAt)
	if untilMidnight < s.cacheTTL {
		return untilMidnight
	}
	return s.cacheTTL
}

func (s *CostService) cachedReport(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) *costing.CostReport {
	if s.cache == nil {
		return nil
	}
	report, ok, err := s.cache.Get(ctx, productID, quantity)
	if err != nil {
		s.logger.Warn("Cost cache lookup failed", zap.Error(err))
		return nil
	}
	s.metrics.RecordCacheLookup(ctx, ok)
	if !ok {
		return nil
	}
	return report
}

// loadCostLines pairs each BOM line with the lot history of its material.
// All lots are read inside one snapshot.
func (s *CostService) loadCostLines(ctx context.Context, items []product.BOMItem) ([]costing.CostLine, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.MaterialID)
	}
	materials, err := s.materialRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*material.RawMaterial, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}

	lines := make([]costing.CostLine, 0, len(items))
	err = s.snapshot.ReadOnly(ctx, func(repo material.MaterialLotRepository) error {
		for _, item := range items {
			m, ok := byID[item.MaterialID]
			if !ok {
				return shared.NotFound("RawMaterial", item.MaterialID)
			}
			lots, err := repo.FindByMaterial(ctx, item.MaterialID)
			if err != nil {
				return err
			}
			lines = append(lines, costing.CostLine{
				Material:        materialRef(m),
				QuantityPerUnit: item.QuantityPerUnit,
				Unit:            item.Unit,
				Lots:            lots,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func productRef(p *product.FinishedProduct) costing.ProductRef {
	return costing.ProductRef{ID: p.ID, Code: p.Code, Name: p.Name, Version: p.Version}
}

func materialRef(m *material.RawMaterial) costing.MaterialRef {
	return costing.MaterialRef{
		ID:       m.ID,
		Code:     m.Code,
		Name:     m.Name,
		Category: string(m.Category),
		Unit:     m.Unit,
	}
}
