package telemetry

import (
	"context"
	"fmt"

	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/haccp/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MonitoringMetrics turns HACCP, lot and production events into counters.
// It is subscribed to the event bus like any other handler.
type MonitoringMetrics struct {
	ccpLogs     metric.Int64Counter
	violations  metric.Int64Counter
	lotEvents   metric.Int64Counter
	consumed    metric.Float64Counter
	orderEvents metric.Int64Counter
}

// NewMonitoringMetrics creates the event counters on meter
func NewMonitoringMetrics(meter metric.Meter) (*MonitoringMetrics, error) {
	var (
		m   MonitoringMetrics
		err error
	)
	if m.ccpLogs, err = meter.Int64Counter("mes.haccp.logs",
		metric.WithDescription("CCP measurements recorded"), metric.WithUnit("{log}")); err != nil {
		return nil, fmt.Errorf("failed to create ccp log counter: %w", err)
	}
	if m.violations, err = meter.Int64Counter("mes.haccp.violations",
		metric.WithDescription("Measurements outside critical limits"), metric.WithUnit("{log}")); err != nil {
		return nil, fmt.Errorf("failed to create violation counter: %w", err)
	}
	if m.lotEvents, err = meter.Int64Counter("mes.lot.events",
		metric.WithDescription("Lot lifecycle events"), metric.WithUnit("{event}")); err != nil {
		return nil, fmt.Errorf("failed to create lot event counter: %w", err)
	}
	if m.consumed, err = meter.Float64Counter("mes.lot.consumed_quantity",
		metric.WithDescription("Quantity drawn from lots, in material units")); err != nil {
		return nil, fmt.Errorf("failed to create consumption counter: %w", err)
	}
	if m.orderEvents, err = meter.Int64Counter("mes.production.events",
		metric.WithDescription("Production order transitions"), metric.WithUnit("{event}")); err != nil {
		return nil, fmt.Errorf("failed to create production counter: %w", err)
	}
	return &m, nil
}

// EventTypes returns every event the counters observe
func (m *MonitoringMetrics) EventTypes() []string {
	types := []string{haccp.EventTypeCCPLogRecorded, haccp.EventTypeCriticalLimitViolated}
	types = append(types, material.LotEventTypes()...)
	return append(types,
		production.EventTypeProductionStarted,
		production.EventTypeProductionCompleted,
		production.EventTypeProductionCancelled,
	)
}

// Handle updates the counter matching the event
func (m *MonitoringMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *haccp.CCPLogRecordedEvent:
		m.ccpLogs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(e.Status))))
	case *haccp.CriticalLimitViolatedEvent:
		m.violations.Add(ctx, 1, metric.WithAttributes(attribute.String("ccp_code", e.CCPCode)))
	case *material.LotConsumedEvent:
		m.lotEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("type", e.EventType())))
		qty, _ := e.Quantity.Float64()
		m.consumed.Add(ctx, qty)
	default:
		attrs := metric.WithAttributes(attribute.String("type", event.EventType()))
		if event.AggregateType() == production.AggregateTypeProductionOrder {
			m.orderEvents.Add(ctx, 1, attrs)
		} else {
			m.lotEvents.Add(ctx, 1, attrs)
		}
	}
	return nil
}

var _ shared.EventHandler = (*MonitoringMetrics)(nil)
