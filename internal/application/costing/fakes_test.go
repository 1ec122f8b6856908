package costing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/costing"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

type fakeProductRepo struct {
	items     map[uuid.UUID]product.FinishedProduct
	findCalls int
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*product.FinishedProduct, error) {
	r.findCalls++
	p, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) FindAll(context.Context, shared.Filter) ([]product.FinishedProduct, error) {
	return r.FindActive(context.Background())
}

func (r *fakeProductRepo) FindActive(context.Context) ([]product.FinishedProduct, error) {
	out := make([]product.FinishedProduct, 0, len(r.items))
	for _, p := range r.items {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *fakeProductRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, p := range r.items {
		if p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *product.FinishedProduct) error {
	r.items[p.ID] = *p
	return nil
}

type fakeBOMRepo struct {
	items []product.BOMItem
}

func (r *fakeBOMRepo) FindByID(_ context.Context, id uuid.UUID) (*product.BOMItem, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBOMRepo) FindActiveByProduct(_ context.Context, productID uuid.UUID) ([]product.BOMItem, error) {
	out := make([]product.BOMItem, 0)
	for _, item := range r.items {
		if item.ProductID == productID && item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeBOMRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]product.BOMItem, error) {
	out := make([]product.BOMItem, 0)
	for _, item := range r.items {
		if item.ProductID == productID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeBOMRepo) FindActiveByMaterial(_ context.Context, materialID uuid.UUID) ([]product.BOMItem, error) {
	out := make([]product.BOMItem, 0)
	for _, item := range r.items {
		if item.MaterialID == materialID && item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeBOMRepo) ExistsActive(_ context.Context, productID, materialID uuid.UUID) (bool, error) {
	for _, item := range r.items {
		if item.ProductID == productID && item.MaterialID == materialID && item.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBOMRepo) ProductsWithActiveBOM(_ context.Context, productIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	for _, id := range productIDs {
		for _, item := range r.items {
			if item.ProductID == id && item.IsActive {
				out[id] = true
			}
		}
	}
	return out, nil
}

func (r *fakeBOMRepo) Save(_ context.Context, item *product.BOMItem) error {
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeBOMRepo) Update(_ context.Context, item *product.BOMItem) error {
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = *item
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeMaterialRepo struct {
	items map[uuid.UUID]material.RawMaterial
}

func (r *fakeMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*material.RawMaterial, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &m, nil
}

func (r *fakeMaterialRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]material.RawMaterial, error) {
	out := make([]material.RawMaterial, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.items[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) FindAll(context.Context, shared.Filter) ([]material.RawMaterial, error) {
	return r.FindActive(context.Background())
}

func (r *fakeMaterialRepo) FindActive(context.Context) ([]material.RawMaterial, error) {
	out := make([]material.RawMaterial, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMaterialRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *fakeMaterialRepo) ExistsByCode(context.Context, string) (bool, error) {
	return false, nil
}

func (r *fakeMaterialRepo) Save(_ context.Context, m *material.RawMaterial) error {
	r.items[m.ID] = *m
	return nil
}

// fakeLotRepo only serves the read paths the cost service uses
type fakeLotRepo struct {
	material.MaterialLotRepository
	byMaterial map[uuid.UUID][]material.MaterialLot
}

func (r *fakeLotRepo) FindByMaterial(_ context.Context, materialID uuid.UUID) ([]material.MaterialLot, error) {
	return append([]material.MaterialLot{}, r.byMaterial[materialID]...), nil
}

type countingScope struct {
	inner LotSnapshotScope
	calls int
}

func (s *countingScope) ReadOnly(ctx context.Context, fn func(lots material.MaterialLotRepository) error) error {
	s.calls++
	return s.inner.ReadOnly(ctx, fn)
}

type memoryCache struct {
	mu      sync.Mutex
	reports map[string]*costing.CostReport
	flushes int
	ttls    []time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{reports: make(map[string]*costing.CostReport)}
}

func cacheKey(productID uuid.UUID, quantity decimal.Decimal) string {
	return productID.String() + "|" + quantity.String()
}

func (c *memoryCache) Get(_ context.Context, productID uuid.UUID, quantity decimal.Decimal) (*costing.CostReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.reports[cacheKey(productID, quantity)]
	return r, ok, nil
}

func (c *memoryCache) Set(_ context.Context, report *costing.CostReport, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls = append(c.ttls, ttl)
	c.reports[cacheKey(report.Product.ID, report.ProductionQuantity)] = report
	return nil
}

func (c *memoryCache) Flush(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = make(map[string]*costing.CostReport)
	c.flushes++
	return nil
}

type recordingMetrics struct {
	calculations []costing.PriceMethod
	hits, misses int
}

func (m *recordingMetrics) RecordCostCalculation(_ context.Context, method costing.PriceMethod, _ int, _ time.Duration) {
	m.calculations = append(m.calculations, method)
}

func (m *recordingMetrics) RecordCacheLookup(_ context.Context, hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

type csvRenderer struct {
	rows []CostSummaryRow
}

func (r *csvRenderer) RenderCostSummary(rows []CostSummaryRow, _ time.Time) ([]byte, error) {
	r.rows = rows
	out := "code,method\n"
	for _, row := range rows {
		out += row.ProductCode + "," + row.CalculationMethod + "\n"
	}
	return []byte(out), nil
}

func (r *csvRenderer) ContentType() string   { return "text/csv" }
func (r *csvRenderer) FileExtension() string { return "csv" }

type memoryArchive struct {
	objects map[string][]byte
}

func (a *memoryArchive) PutObject(_ context.Context, key, _ string, body []byte) error {
	a.objects[key] = body
	return nil
}

func (a *memoryArchive) PresignDownload(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://files.example.test/" + key, fixedNow.Add(expiresIn), nil
}
