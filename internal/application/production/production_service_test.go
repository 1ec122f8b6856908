package production

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type orderFixture struct {
	svc       *ProductionService
	orders    *fakeOrderRepo
	logs      *fakeLogRepo
	publisher *recordingPublisher
	dumpling  *product.FinishedProduct
	retired   *product.FinishedProduct
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	dumpling, err := product.NewFinishedProduct("fp-dumpling", "Dumplings", product.ProductSpec{})
	require.NoError(t, err)
	retired, err := product.NewFinishedProduct("fp-retired", "Retired", product.ProductSpec{})
	require.NoError(t, err)
	retired.Deactivate()

	f := &orderFixture{
		orders:    newFakeOrderRepo(),
		logs:      &fakeLogRepo{open: make(map[uuid.UUID][]haccp.CCPLog)},
		publisher: &recordingPublisher{},
		dumpling:  dumpling,
		retired:   retired,
	}
	products := &fakeProductRepo{items: map[uuid.UUID]product.FinishedProduct{
		dumpling.ID: *dumpling,
		retired.ID:  *retired,
	}}
	f.svc = NewProductionService(f.orders, products, f.logs, nil)
	f.svc.SetEventPublisher(f.publisher)
	f.svc.SetClock(func() time.Time { return fixedNow })
	return f
}

func (f *orderFixture) request(number string, planned int64) CreateOrderRequest {
	return CreateOrderRequest{
		OrderNumber:      number,
		ProductID:        f.dumpling.ID,
		PlannedQuantity:  decimal.NewFromInt(planned),
		PlannedStartDate: fixedNow.Add(24 * time.Hour),
		PlannedEndDate:   fixedNow.Add(48 * time.Hour),
	}
}

func (f *orderFixture) started(t *testing.T, number string, planned int64) *OrderResponse {
	t.Helper()
	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.request(number, planned))
	require.NoError(t, err)
	started, err := f.svc.Start(ctx, created.ID, nil)
	require.NoError(t, err)
	return started
}

func TestProductionService_Create(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	resp, err := f.svc.Create(ctx, f.request("PO-001", 100))
	require.NoError(t, err)
	assert.Equal(t, "planned", resp.Status)
	assert.Equal(t, "normal", resp.Priority)
	assert.True(t, resp.MaxProducibleQuantity.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, []string{production.EventTypeProductionOrderCreated}, f.publisher.types())

	stored := f.orders.get(resp.ID)
	assert.Equal(t, "PO-001", stored.OrderNumber)
	assert.Empty(t, stored.GetDomainEvents())
}

func TestProductionService_CreateRejections(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	_, err := f.svc.Create(ctx, f.request("PO-001", 100))
	require.NoError(t, err)

	past := f.request("PO-PAST", 10)
	past.PlannedStartDate = fixedNow.Add(-time.Hour)
	_, err = f.svc.Create(ctx, past)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = f.svc.Create(ctx, f.request("PO", 10))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = f.svc.Create(ctx, f.request("PO-ZERO", 0))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	unknown := f.request("PO-UNKNOWN", 10)
	unknown.ProductID = uuid.New()
	_, err = f.svc.Create(ctx, unknown)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	inactive := f.request("PO-INACTIVE", 10)
	inactive.ProductID = f.retired.ID
	_, err = f.svc.Create(ctx, inactive)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	_, err = f.svc.Create(ctx, f.request("PO-001", 10))
	assert.True(t, errors.Is(err, shared.ErrConflict))
}

func TestProductionService_ConcurrentWindowLimit(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	for i := 1; i < production.MaxConcurrentOrders; i++ {
		_, err := f.svc.Create(ctx, f.request(fmt.Sprintf("PO-%03d", i), 10))
		require.NoError(t, err)
	}
	fifth, err := f.svc.Create(ctx, f.request("PO-005", 10))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.request("PO-006", 10))
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	later := f.request("PO-LATER", 10)
	later.PlannedStartDate = fixedNow.Add(72 * time.Hour)
	later.PlannedEndDate = fixedNow.Add(96 * time.Hour)
	_, err = f.svc.Create(ctx, later)
	assert.NoError(t, err)

	_, err = f.svc.Cancel(ctx, fifth.ID, "line maintenance")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.request("PO-006", 10))
	assert.NoError(t, err)
}

func TestProductionService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("over-production cap", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.started(t, "PO-001", 100)

		_, err := f.svc.Complete(ctx, order.ID, CompleteOrderRequest{ProducedQuantity: decimal.NewFromInt(115)})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.Equal(t, production.OrderStatusInProgress, f.orders.get(order.ID).Status)

		done, err := f.svc.Complete(ctx, order.ID, CompleteOrderRequest{ProducedQuantity: decimal.NewFromInt(108)})
		require.NoError(t, err)
		assert.Equal(t, "completed", done.Status)
		assert.True(t, done.ProducedQuantity.Equal(decimal.NewFromInt(108)))
		assert.True(t, done.QuantityEfficiency.Equal(decimal.NewFromInt(108)))
		assert.Contains(t, f.publisher.types(), production.EventTypeProductionCompleted)
	})

	t.Run("planned order cannot complete", func(t *testing.T) {
		f := newOrderFixture(t)
		created, err := f.svc.Create(ctx, f.request("PO-001", 100))
		require.NoError(t, err)

		_, err = f.svc.Complete(ctx, created.ID, CompleteOrderRequest{ProducedQuantity: decimal.NewFromInt(100)})
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("open HACCP deviations block completion", func(t *testing.T) {
		f := newOrderFixture(t)
		order := f.started(t, "PO-001", 100)
		f.logs.open[order.ID] = []haccp.CCPLog{{CCPID: uuid.New(), Status: haccp.LogStatusOutOfLimits}}

		_, err := f.svc.Complete(ctx, order.ID, CompleteOrderRequest{ProducedQuantity: decimal.NewFromInt(100)})
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		assert.Equal(t, production.OrderStatusInProgress, f.orders.get(order.ID).Status)

		delete(f.logs.open, order.ID)
		_, err = f.svc.Complete(ctx, order.ID, CompleteOrderRequest{ProducedQuantity: decimal.NewFromInt(100)})
		assert.NoError(t, err)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.svc.Complete(ctx, uuid.New(), CompleteOrderRequest{ProducedQuantity: decimal.NewFromInt(1)})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestProductionService_PauseResumeCancel(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	order := f.started(t, "PO-001", 100)

	_, err := f.svc.Pause(ctx, order.ID, "")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	paused, err := f.svc.Pause(ctx, order.ID, "mixer jammed")
	require.NoError(t, err)
	assert.Equal(t, "on_hold", paused.Status)
	assert.Contains(t, paused.Notes, "paused: mixer jammed")

	_, err = f.svc.Cancel(ctx, order.ID, "no longer needed")
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	resumed, err := f.svc.Resume(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resumed.Status)

	cancelled, err := f.svc.Cancel(ctx, order.ID, "no longer needed")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "no longer needed", cancelled.CancelReason)

	_, err = f.svc.Start(ctx, order.ID, nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	assert.Equal(t, []string{
		production.EventTypeProductionOrderCreated,
		production.EventTypeProductionStarted,
		production.EventTypeProductionPaused,
		production.EventTypeProductionResumed,
		production.EventTypeProductionCancelled,
	}, f.publisher.types())
}

func TestProductionService_List(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	f.started(t, "PO-001", 10)
	_, err := f.svc.Create(ctx, f.request("PO-002", 10))
	require.NoError(t, err)

	orders, total, err := f.svc.List(ctx, OrderListFilter{Status: "planned"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, "PO-002", orders[0].OrderNumber)

	_, _, err = f.svc.List(ctx, OrderListFilter{Status: "finished"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, _, err = f.svc.List(ctx, OrderListFilter{Priority: "asap"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}
