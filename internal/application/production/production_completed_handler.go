package production

import (
	"context"
	"errors"
	"fmt"

	inventoryapp "github.com/haccp/backend/internal/application/inventory"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/haccp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MaterialConsumer draws material from the lot ledger in FIFO order
type MaterialConsumer interface {
	ConsumeFIFO(ctx context.Context, req inventoryapp.ConsumeFIFORequest) (*inventoryapp.FIFOConsumptionResponse, error)
}

// ProductionCompletedHandler handles ProductionCompletedEvent
// and consumes the BOM materials of the produced quantity
type ProductionCompletedHandler struct {
	bomRepo  product.BOMRepository
	consumer MaterialConsumer
	logger   *zap.Logger
}

// NewProductionCompletedHandler creates a new handler for production completed events
func NewProductionCompletedHandler(
	bomRepo product.BOMRepository,
	consumer MaterialConsumer,
	logger *zap.Logger,
) *ProductionCompletedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionCompletedHandler{
		bomRepo:  bomRepo,
		consumer: consumer,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProductionCompletedHandler) EventTypes() []string {
	return []string{production.EventTypeProductionCompleted}
}

// Handle processes a ProductionCompletedEvent. Shortfalls are logged and
// never undo the completion.
func (h *ProductionCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*production.ProductionCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			production.EventTypeProductionCompleted, event.EventType())
	}

	items, err := h.bomRepo.FindActiveByProduct(ctx, completed.ProductID)
	if err != nil {
		h.logger.Error("failed to load BOM for completed order",
			zap.String("order_number", completed.OrderNumber),
			zap.Error(err),
		)
		return err
	}
	if len(items) == 0 {
		h.logger.Warn("completed order has no active BOM, nothing consumed",
			zap.String("order_number", completed.OrderNumber),
		)
		return nil
	}

	orderID := completed.OrderID
	consumed := 0
	for _, item := range items {
		required := item.StockQuantity(completed.ProducedQuantity)
		if !required.IsPositive() {
			h.logger.Warn("BOM requirement rounds to zero, nothing consumed",
				zap.String("order_number", completed.OrderNumber),
				zap.String("material_id", item.MaterialID.String()),
			)
			continue
		}
		_, err := h.consumer.ConsumeFIFO(ctx, inventoryapp.ConsumeFIFORequest{
			MaterialID:        item.MaterialID,
			Quantity:          required,
			ProductionOrderID: &orderID,
			Reference:         fmt.Sprintf("PRD:%s", completed.OrderNumber),
		})
		if err != nil {
			if errors.Is(err, shared.ErrInsufficientStock) {
				h.logger.Warn("material shortfall on production completion",
					zap.String("order_number", completed.OrderNumber),
					zap.String("material_id", item.MaterialID.String()),
					zap.String("required", required.String()),
					zap.Error(err),
				)
			} else {
				h.logger.Error("failed to consume material for completed order",
					zap.String("order_number", completed.OrderNumber),
					zap.String("material_id", item.MaterialID.String()),
					zap.Error(err),
				)
			}
			continue
		}
		consumed++
	}

	h.logger.Info("production materials consumed",
		zap.String("order_number", completed.OrderNumber),
		zap.String("produced_quantity", completed.ProducedQuantity.String()),
		zap.Int("bom_lines", len(items)),
		zap.Int("consumed_lines", consumed),
	)
	return nil
}

// Ensure ProductionCompletedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProductionCompletedHandler)(nil)
