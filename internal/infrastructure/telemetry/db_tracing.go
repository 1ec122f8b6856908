package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls GORM span instrumentation
type DBTracingConfig struct {
	Enabled         bool
	DBName          string
	IncludeSQLVars  bool
	SlowQueryThresh time.Duration
	// TracerProvider overrides the global provider when set
	TracerProvider trace.TracerProvider
}

type queryStartKey struct{}

// callbackRegistrar is the Register half of GORM's unexported callback builder
type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// gormOps lists the callback processors GORM exposes, paired with their core callback
var gormOps = []struct {
	name      string
	processor func(db *gorm.DB, anchor string) (before, after callbackRegistrar)
	anchor    string
}{
	{"create", func(db *gorm.DB, a string) (callbackRegistrar, callbackRegistrar) {
		p := db.Callback().Create()
		return p.Before(a), p.After(a)
	}, "gorm:create"},
	{"query", func(db *gorm.DB, a string) (callbackRegistrar, callbackRegistrar) {
		p := db.Callback().Query()
		return p.Before(a), p.After(a)
	}, "gorm:query"},
	{"update", func(db *gorm.DB, a string) (callbackRegistrar, callbackRegistrar) {
		p := db.Callback().Update()
		return p.Before(a), p.After(a)
	}, "gorm:update"},
	{"delete", func(db *gorm.DB, a string) (callbackRegistrar, callbackRegistrar) {
		p := db.Callback().Delete()
		return p.Before(a), p.After(a)
	}, "gorm:delete"},
	{"row", func(db *gorm.DB, a string) (callbackRegistrar, callbackRegistrar) {
		p := db.Callback().Row()
		return p.Before(a), p.After(a)
	}, "gorm:row"},
	{"raw", func(db *gorm.DB, a string) (callbackRegistrar, callbackRegistrar) {
		p := db.Callback().Raw()
		return p.Before(a), p.After(a)
	}, "gorm:raw"},
}

// RegisterDBTracing installs the otelgorm plugin plus a callback that tags
// slow and failed statements on the active span
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.IncludeSQLVars {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	for _, op := range gormOps {
		before, after := op.processor(db, op.anchor)
		if err := before.Register("mes:trace_start:"+op.name, markQueryStart); err != nil {
			return err
		}
		if err := after.Register("mes:trace_end:"+op.name, annotateSpan(cfg.SlowQueryThresh)); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func annotateSpan(slow time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}

		started, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok || slow <= 0 {
			return
		}
		if elapsed := time.Since(started); elapsed > slow {
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", slow.Milliseconds()),
			))
		}
	}
}
