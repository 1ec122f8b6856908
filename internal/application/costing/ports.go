package costing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/costing"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/shopspring/decimal"
)

// LotSnapshotScope runs lot reads against one consistent view of the ledger.
// Implementations open a read-only transaction so concurrent consumption cannot
// be observed half way through a report.
type LotSnapshotScope interface {
	ReadOnly(ctx context.Context, fn func(lots material.MaterialLotRepository) error) error
}

// DirectSnapshotScope reads straight from a repository without a transaction
type DirectSnapshotScope struct {
	lots material.MaterialLotRepository
}

// NewDirectSnapshotScope creates a scope over lots
func NewDirectSnapshotScope(lots material.MaterialLotRepository) *DirectSnapshotScope {
	return &DirectSnapshotScope{lots: lots}
}

// ReadOnly calls fn with the wrapped repository
func (s *DirectSnapshotScope) ReadOnly(ctx context.Context, fn func(lots material.MaterialLotRepository) error) error {
	return fn(s.lots)
}

// CostReportCache stores computed cost reports keyed by product and quantity
type CostReportCache interface {
	Get(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (*costing.CostReport, bool, error)
	Set(ctx context.Context, report *costing.CostReport, ttl time.Duration) error
	Flush(ctx context.Context) error
}

// CostMetrics records costing measurements
type CostMetrics interface {
	RecordCostCalculation(ctx context.Context, method costing.PriceMethod, lines int, duration time.Duration)
	RecordCacheLookup(ctx context.Context, hit bool)
}

// SummaryRenderer renders the cost summary into a downloadable document
type SummaryRenderer interface {
	RenderCostSummary(rows []CostSummaryRow, generatedAt time.Time) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// ReportArchive stores rendered reports and hands out download links
type ReportArchive interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

type noopMetrics struct{}

func (noopMetrics) RecordCostCalculation(context.Context, costing.PriceMethod, int, time.Duration) {}
func (noopMetrics) RecordCacheLookup(context.Context, bool)                                        {}
