package haccp

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/haccp/backend/internal/domain/shared"
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

type fakeCCPRepo struct {
	items map[uuid.UUID]haccp.CCP
}

func (r *fakeCCPRepo) FindByID(_ context.Context, id uuid.UUID) (*haccp.CCP, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCCPRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]haccp.CCP, error) {
	out := make([]haccp.CCP, 0)
	for _, id := range ids {
		if c, ok := r.items[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCCPRepo) FindAll(_ context.Context, filter shared.Filter) ([]haccp.CCP, error) {
	out := make([]haccp.CCP, 0)
	for _, c := range r.items {
		if t, ok := filter.Filters["ccp_type"]; ok && string(c.Type) != t {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeCCPRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, err := r.FindAll(ctx, filter)
	return int64(len(all)), err
}

func (r *fakeCCPRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, c := range r.items {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCCPRepo) Save(_ context.Context, c *haccp.CCP) error {
	r.items[c.ID] = *c
	return nil
}

type fakeLogRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]haccp.CCPLog
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{items: make(map[uuid.UUID]haccp.CCPLog)}
}

func (r *fakeLogRepo) put(l *haccp.CCPLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *l
	copied.ClearDomainEvents()
	r.items[l.ID] = copied
}

func (r *fakeLogRepo) filter(keep func(l *haccp.CCPLog) bool) []haccp.CCPLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]haccp.CCPLog, 0)
	for _, l := range r.items {
		if keep(&l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.After(out[j].MeasuredAt) })
	return out
}

func (r *fakeLogRepo) FindByID(_ context.Context, id uuid.UUID) (*haccp.CCPLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

func (r *fakeLogRepo) FindAll(_ context.Context, filter shared.Filter) ([]haccp.CCPLog, error) {
	return r.filter(func(l *haccp.CCPLog) bool {
		if status, ok := filter.Filters["status"]; ok && string(l.Status) != status {
			return false
		}
		if ccpID, ok := filter.Filters["ccp_id"]; ok && l.CCPID != ccpID {
			return false
		}
		return true
	}), nil
}

func (r *fakeLogRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, err := r.FindAll(ctx, filter)
	return int64(len(all)), err
}

func (r *fakeLogRepo) ExistsNear(_ context.Context, ccpID uuid.UUID, at time.Time) (bool, error) {
	return len(r.filter(func(l *haccp.CCPLog) bool { return l.CollidesWith(ccpID, at) })) > 0, nil
}

func (r *fakeLogRepo) FindByStatus(_ context.Context, status haccp.LogStatus) ([]haccp.CCPLog, error) {
	return r.filter(func(l *haccp.CCPLog) bool { return l.Status == status }), nil
}

func (r *fakeLogRepo) FindMeasuredSince(_ context.Context, since time.Time) ([]haccp.CCPLog, error) {
	return r.filter(func(l *haccp.CCPLog) bool { return !l.MeasuredAt.Before(since) }), nil
}

func (r *fakeLogRepo) FindOpenDeviationsByOrder(_ context.Context, orderID uuid.UUID) ([]haccp.CCPLog, error) {
	return r.filter(func(l *haccp.CCPLog) bool {
		return l.ProductionOrderID != nil && *l.ProductionOrderID == orderID && l.IsOpenDeviation()
	}), nil
}

func (r *fakeLogRepo) Save(_ context.Context, l *haccp.CCPLog) error {
	r.put(l)
	return nil
}

func (r *fakeLogRepo) SaveWithLock(ctx context.Context, l *haccp.CCPLog) error {
	stored, err := r.FindByID(ctx, l.ID)
	if err != nil {
		return err
	}
	if stored.Version != l.Version-1 {
		return shared.NewDomainError(shared.CodeOptimisticLock, "log was modified by another transaction")
	}
	r.put(l)
	return nil
}

type fakeProductRepo struct {
	product.ProductRepository
	items map[uuid.UUID]product.FinishedProduct
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*product.FinishedProduct, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

type fakeOrderRepo struct {
	production.ProductionOrderRepository
	items map[uuid.UUID]production.ProductionOrder
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*production.ProductionOrder, error) {
	o, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}
