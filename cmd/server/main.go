package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haccp/backend/internal/app"
	"github.com/haccp/backend/internal/application/costing"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/infrastructure/auth"
	"github.com/haccp/backend/internal/infrastructure/cache"
	"github.com/haccp/backend/internal/infrastructure/config"
	"github.com/haccp/backend/internal/infrastructure/export"
	"github.com/haccp/backend/internal/infrastructure/logger"
	"github.com/haccp/backend/internal/infrastructure/persistence"
	"github.com/haccp/backend/internal/infrastructure/storage"
	"github.com/haccp/backend/internal/infrastructure/telemetry"
	"github.com/haccp/backend/internal/interfaces/http/handler"
	"github.com/haccp/backend/internal/interfaces/http/middleware"
	"github.com/haccp/backend/internal/interfaces/http/router"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting HACCP MES backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", Version),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    Version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricInterval:    cfg.Telemetry.MetricInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		SlowQueryThresh: 200 * time.Millisecond,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	costCache, closeCache := cache.NewCostReportCache(ctx, cfg.Redis, log)
	defer func() { _ = closeCache() }()

	var costMetrics costing.CostMetrics
	var subscribers []shared.EventHandler
	if providers.Enabled() {
		cm, err := telemetry.NewCostMetrics(providers.Meter())
		if err != nil {
			log.Fatal("Failed to create cost metrics", zap.Error(err))
		}
		costMetrics = cm
		monitoring, err := telemetry.NewMonitoringMetrics(providers.Meter())
		if err != nil {
			log.Fatal("Failed to create monitoring metrics", zap.Error(err))
		}
		subscribers = append(subscribers, monitoring)
	}

	var archive costing.ReportArchive
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3ReportArchive(ctx, cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize report storage", zap.Error(err))
		}
		archive = s3Archive
		log.Info("Cost exports archived to object storage", zap.String("bucket", cfg.Storage.Bucket))
	}

	container := app.NewContainer(db.DB, app.Options{
		Logger:      log,
		Costing:     cfg.Costing,
		Cache:       costCache,
		CostMetrics: costMetrics,
		Renderer:    export.NewXLSXRenderer(),
		Archive:     archive,
		DownloadTTL: cfg.Storage.DownloadTTL,
		Subscribers: subscribers,
	})

	var tokens middleware.TokenValidator
	if cfg.JWT.Enabled {
		tokens = auth.NewTokenService(cfg.JWT)
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:           log,
		ServiceName:      cfg.Telemetry.ServiceName,
		TracingEnabled:   providers.Enabled(),
		MaxBodySize:      cfg.Server.MaxBodySize,
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
		TrustedProxies:   cfg.Server.TrustedProxies,
		TokenValidator:   tokens,
	}, container.Handlers(cfg.App.Name, Version, map[string]handler.Pinger{
		"database": db,
	}))
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
