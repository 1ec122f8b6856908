package production

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	inventoryapp "github.com/haccp/backend/internal/application/inventory"
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

type fakeOrderRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]production.ProductionOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{items: make(map[uuid.UUID]production.ProductionOrder)}
}

func (r *fakeOrderRepo) put(o *production.ProductionOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *o
	copied.ClearDomainEvents()
	r.items[o.ID] = copied
}

func (r *fakeOrderRepo) get(id uuid.UUID) production.ProductionOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id]
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*production.ProductionOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filter shared.Filter) ([]production.ProductionOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]production.ProductionOrder, 0)
	for _, o := range r.items {
		if status, ok := filter.Filters["status"]; ok && string(o.Status) != status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	orders, err := r.FindAll(ctx, filter)
	return int64(len(orders)), err
}

func (r *fakeOrderRepo) ExistsByOrderNumber(_ context.Context, number string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.items {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) CountOverlapping(_ context.Context, start, end time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.items {
		if (o.Status == production.OrderStatusPlanned || o.Status == production.OrderStatusInProgress) && o.Overlaps(start, end) {
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *production.ProductionOrder) error {
	r.put(o)
	return nil
}

func (r *fakeOrderRepo) SaveWithLock(_ context.Context, o *production.ProductionOrder) error {
	if stored := r.get(o.ID); stored.Version != o.Version-1 {
		return shared.NewDomainError(shared.CodeOptimisticLock, "order was modified by another transaction")
	}
	r.put(o)
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

// fakeLogRepo serves the open-deviation lookup only
type fakeLogRepo struct {
	haccp.CCPLogRepository
	open map[uuid.UUID][]haccp.CCPLog
}

func (r *fakeLogRepo) FindOpenDeviationsByOrder(_ context.Context, orderID uuid.UUID) ([]haccp.CCPLog, error) {
	return r.open[orderID], nil
}

type fakeBOMRepo struct {
	product.BOMRepository
	items []product.BOMItem
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

type fakeConsumer struct {
	requests []inventoryapp.ConsumeFIFORequest
	failures map[uuid.UUID]error
}

func (c *fakeConsumer) ConsumeFIFO(_ context.Context, req inventoryapp.ConsumeFIFORequest) (*inventoryapp.FIFOConsumptionResponse, error) {
	c.requests = append(c.requests, req)
	if err, ok := c.failures[req.MaterialID]; ok {
		return nil, err
	}
	return &inventoryapp.FIFOConsumptionResponse{}, nil
}
