package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/domain/supplier"
)

// recordingPublisher collects published events
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

type fakeMaterialRepo struct {
	items map[uuid.UUID]material.RawMaterial
}

func newFakeMaterialRepo(ms ...*material.RawMaterial) *fakeMaterialRepo {
	r := &fakeMaterialRepo{items: map[uuid.UUID]material.RawMaterial{}}
	for _, m := range ms {
		r.items[m.ID] = *m
	}
	return r
}

func (r *fakeMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*material.RawMaterial, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
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

func (r *fakeMaterialRepo) FindAll(_ context.Context, _ shared.Filter) ([]material.RawMaterial, error) {
	out := make([]material.RawMaterial, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeMaterialRepo) FindActive(ctx context.Context) ([]material.RawMaterial, error) {
	all, _ := r.FindAll(ctx, shared.DefaultFilter())
	out := make([]material.RawMaterial, 0, len(all))
	for _, m := range all {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
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

type fakeSupplierRepo struct {
	items map[uuid.UUID]supplier.Supplier
}

func newFakeSupplierRepo(ss ...*supplier.Supplier) *fakeSupplierRepo {
	r := &fakeSupplierRepo{items: map[uuid.UUID]supplier.Supplier{}}
	for _, s := range ss {
		r.items[s.ID] = *s
	}
	return r
}

func (r *fakeSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
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

func (r *fakeSupplierRepo) FindAll(_ context.Context, _ shared.Filter) ([]supplier.Supplier, error) {
	out := make([]supplier.Supplier, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSupplierRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
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

// fakeLotRepo stores value copies so callers cannot mutate persisted state
type fakeLotRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]material.MaterialLot
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{items: map[uuid.UUID]material.MaterialLot{}}
}

func (r *fakeLotRepo) put(lot *material.MaterialLot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *lot
	copied.ClearDomainEvents()
	r.items[lot.ID] = copied
}

func (r *fakeLotRepo) get(id uuid.UUID) material.MaterialLot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id]
}

func (r *fakeLotRepo) FindByID(_ context.Context, id uuid.UUID) (*material.MaterialLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &lot, nil
}

func (r *fakeLotRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*material.MaterialLot, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeLotRepo) filter(keep func(material.MaterialLot) bool) []material.MaterialLot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]material.MaterialLot, 0)
	for _, lot := range r.items {
		if keep(lot) {
			out = append(out, lot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotNumber < out[j].LotNumber })
	return out
}

func (r *fakeLotRepo) FindByMaterial(_ context.Context, materialID uuid.UUID) ([]material.MaterialLot, error) {
	return r.filter(func(l material.MaterialLot) bool { return l.MaterialID == materialID }), nil
}

func (r *fakeLotRepo) FindByMaterialForUpdate(ctx context.Context, materialID uuid.UUID) ([]material.MaterialLot, error) {
	return r.FindByMaterial(ctx, materialID)
}

func (r *fakeLotRepo) FindInStock(_ context.Context) ([]material.MaterialLot, error) {
	return r.filter(func(l material.MaterialLot) bool {
		return !l.Status.IsTerminal() && l.QuantityCurrent.IsPositive()
	}), nil
}

func (r *fakeLotRepo) FindReceivedSince(_ context.Context, since time.Time) ([]material.MaterialLot, error) {
	return r.filter(func(l material.MaterialLot) bool { return !l.ReceivedDate.Before(since) }), nil
}

func (r *fakeLotRepo) FindAll(_ context.Context, f shared.Filter) ([]material.MaterialLot, error) {
	return r.filter(func(l material.MaterialLot) bool {
		if id, ok := f.Filters["material_id"].(uuid.UUID); ok && l.MaterialID != id {
			return false
		}
		if st, ok := f.Filters["status"].(string); ok && string(l.Status) != st {
			return false
		}
		return true
	}), nil
}

func (r *fakeLotRepo) Count(ctx context.Context, f shared.Filter) (int64, error) {
	lots, _ := r.FindAll(ctx, f)
	return int64(len(lots)), nil
}

func (r *fakeLotRepo) ExistsByLotNumber(_ context.Context, materialID uuid.UUID, lotNumber string) (bool, error) {
	lots := r.filter(func(l material.MaterialLot) bool {
		return l.MaterialID == materialID && l.LotNumber == lotNumber
	})
	return len(lots) > 0, nil
}

func (r *fakeLotRepo) Save(_ context.Context, lot *material.MaterialLot) error {
	r.put(lot)
	return nil
}

func (r *fakeLotRepo) SaveWithLock(_ context.Context, lot *material.MaterialLot) error {
	stored := r.get(lot.ID)
	if stored.Version != lot.Version-1 {
		return shared.NewDomainError(shared.CodeOptimisticLock, "lot was modified by another transaction")
	}
	r.put(lot)
	return nil
}

func (r *fakeLotRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeConsumptionRepo struct {
	mu      sync.Mutex
	records []material.LotConsumption
}

func (r *fakeConsumptionRepo) Save(_ context.Context, c *material.LotConsumption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *c)
	return nil
}

func (r *fakeConsumptionRepo) FindByLot(_ context.Context, lotID uuid.UUID) ([]material.LotConsumption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]material.LotConsumption, 0)
	for _, c := range r.records {
		if c.LotID == lotID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConsumptionRepo) FindByProductionOrder(_ context.Context, orderID uuid.UUID) ([]material.LotConsumption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]material.LotConsumption, 0)
	for _, c := range r.records {
		if c.ProductionOrderID != nil && *c.ProductionOrderID == orderID {
			out = append(out, c)
		}
	}
	return out, nil
}
