package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/haccp/backend/internal/application/costing"
	domain "github.com/haccp/backend/internal/domain/costing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CostMetrics records costing engine measurements
type CostMetrics struct {
	calculations metric.Int64Counter
	duration     metric.Float64Histogram
	lines        metric.Int64Histogram
	cacheLookups metric.Int64Counter
}

// NewCostMetrics creates the costing instruments on meter
func NewCostMetrics(meter metric.Meter) (*CostMetrics, error) {
	calculations, err := meter.Int64Counter("mes.cost.calculations",
		metric.WithDescription("Cost reports calculated, by weakest pricing tier"),
		metric.WithUnit("{report}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create calculations counter: %w", err)
	}
	duration, err := meter.Float64Histogram("mes.cost.calculation.duration",
		metric.WithDescription("Time spent pricing a bill of materials"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	lines, err := meter.Int64Histogram("mes.cost.bom_lines",
		metric.WithDescription("Active BOM lines per calculation"),
		metric.WithUnit("{line}"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 20, 50))
	if err != nil {
		return nil, fmt.Errorf("failed to create lines histogram: %w", err)
	}
	cacheLookups, err := meter.Int64Counter("mes.cost.cache.lookups",
		metric.WithDescription("Cost cache lookups by result"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create cache counter: %w", err)
	}
	return &CostMetrics{
		calculations: calculations,
		duration:     duration,
		lines:        lines,
		cacheLookups: cacheLookups,
	}, nil
}

func (m *CostMetrics) RecordCostCalculation(ctx context.Context, method domain.PriceMethod, lines int, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("method", method.String()))
	m.calculations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(d.Microseconds())/1000, attrs)
	m.lines.Record(ctx, int64(lines))
}

func (m *CostMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

var _ costing.CostMetrics = (*CostMetrics)(nil)
