package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/domain/supplier"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeSupplierRepo struct {
	items map[uuid.UUID]supplier.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{items: make(map[uuid.UUID]supplier.Supplier)}
}

func (r *fakeSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, shared.NotFound("Supplier", id)
	}
	return &s, nil
}

func (r *fakeSupplierRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]supplier.Supplier, error) {
	out := make([]supplier.Supplier, 0)
	for _, id := range ids {
		if s, ok := r.items[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) FindAll(_ context.Context, filter shared.Filter) ([]supplier.Supplier, error) {
	out := make([]supplier.Supplier, 0)
	for _, s := range r.items {
		if st, ok := filter.Filters["status"]; ok && string(s.Status) != st {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeSupplierRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, err := r.FindAll(ctx, filter)
	return int64(len(all)), err
}

func (r *fakeSupplierRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, s := range r.items {
		if s.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSupplierRepo) Save(_ context.Context, s *supplier.Supplier) error {
	r.items[s.ID] = *s
	return nil
}

type fakeMaterialRepo struct {
	items map[uuid.UUID]material.RawMaterial
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{items: make(map[uuid.UUID]material.RawMaterial)}
}

func (r *fakeMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*material.RawMaterial, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, shared.NotFound("RawMaterial", id)
	}
	return &m, nil
}

func (r *fakeMaterialRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]material.RawMaterial, error) {
	out := make([]material.RawMaterial, 0)
	for _, id := range ids {
		if m, ok := r.items[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) FindAll(_ context.Context, filter shared.Filter) ([]material.RawMaterial, error) {
	out := make([]material.RawMaterial, 0)
	for _, m := range r.items {
		if c, ok := filter.Filters["category"]; ok && string(m.Category) != c {
			continue
		}
		if a, ok := filter.Filters["is_active"]; ok && m.IsActive != a {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeMaterialRepo) FindActive(ctx context.Context) ([]material.RawMaterial, error) {
	return r.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{"is_active": true}})
}

func (r *fakeMaterialRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, err := r.FindAll(ctx, filter)
	return int64(len(all)), err
}

func (r *fakeMaterialRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, m := range r.items {
		if m.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMaterialRepo) Save(_ context.Context, m *material.RawMaterial) error {
	r.items[m.ID] = *m
	return nil
}

type fakeProductRepo struct {
	items map[uuid.UUID]product.FinishedProduct
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: make(map[uuid.UUID]product.FinishedProduct)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*product.FinishedProduct, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, shared.NotFound("FinishedProduct", id)
	}
	return &p, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, filter shared.Filter) ([]product.FinishedProduct, error) {
	out := make([]product.FinishedProduct, 0)
	for _, p := range r.items {
		if a, ok := filter.Filters["is_active"]; ok && p.IsActive != a {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeProductRepo) FindActive(ctx context.Context) ([]product.FinishedProduct, error) {
	return r.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{"is_active": true}})
}

func (r *fakeProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, err := r.FindAll(ctx, filter)
	return int64(len(all)), err
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
	items map[uuid.UUID]product.BOMItem
}

func newFakeBOMRepo() *fakeBOMRepo {
	return &fakeBOMRepo{items: make(map[uuid.UUID]product.BOMItem)}
}

func (r *fakeBOMRepo) FindByID(_ context.Context, id uuid.UUID) (*product.BOMItem, error) {
	b, ok := r.items[id]
	if !ok {
		return nil, shared.NotFound("BOMItem", id)
	}
	return &b, nil
}

func (r *fakeBOMRepo) filter(keep func(product.BOMItem) bool) []product.BOMItem {
	out := make([]product.BOMItem, 0)
	for _, b := range r.items {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *fakeBOMRepo) FindActiveByProduct(_ context.Context, productID uuid.UUID) ([]product.BOMItem, error) {
	return r.filter(func(b product.BOMItem) bool { return b.ProductID == productID && b.IsActive }), nil
}

func (r *fakeBOMRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]product.BOMItem, error) {
	return r.filter(func(b product.BOMItem) bool { return b.ProductID == productID }), nil
}

func (r *fakeBOMRepo) FindActiveByMaterial(_ context.Context, materialID uuid.UUID) ([]product.BOMItem, error) {
	return r.filter(func(b product.BOMItem) bool { return b.MaterialID == materialID && b.IsActive }), nil
}

func (r *fakeBOMRepo) ExistsActive(_ context.Context, productID, materialID uuid.UUID) (bool, error) {
	for _, b := range r.items {
		if b.ProductID == productID && b.MaterialID == materialID && b.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBOMRepo) ProductsWithActiveBOM(_ context.Context, productIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	wanted := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	out := make(map[uuid.UUID]bool)
	for _, b := range r.items {
		if b.IsActive && wanted[b.ProductID] {
			out[b.ProductID] = true
		}
	}
	return out, nil
}

func (r *fakeBOMRepo) Save(_ context.Context, item *product.BOMItem) error {
	r.items[item.ID] = *item
	return nil
}

func (r *fakeBOMRepo) Update(_ context.Context, item *product.BOMItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return shared.NotFound("BOMItem", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}
