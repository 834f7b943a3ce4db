package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/erp/sale-ebay/internal/infrastructure/cache"
	"github.com/erp/sale-ebay/internal/infrastructure/config"
	"github.com/erp/sale-ebay/internal/infrastructure/ecommerce"
	"github.com/erp/sale-ebay/internal/infrastructure/logger"
	"github.com/erp/sale-ebay/internal/infrastructure/persistence"
	"github.com/erp/sale-ebay/internal/infrastructure/storage"
	"github.com/erp/sale-ebay/internal/infrastructure/telemetry"
	"github.com/erp/sale-ebay/internal/interfaces/http/handler"
	"github.com/erp/sale-ebay/internal/interfaces/http/middleware"
	"github.com/erp/sale-ebay/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting eBay sale importer",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownTelemetry(tp, mp, log)

	importMetrics, err := telemetry.NewImportMetrics(mp.Meter("sale-ebay/import"))
	if err != nil {
		log.Fatal("Failed to create import metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		WithVariables:   cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	uow := persistence.NewGormUnitOfWork(db.DB)

	// Import pipeline
	apis := ecommerce.NewEbayClientFactory(ecommerce.ClientDefaults{
		ProductionURL:      cfg.Ebay.ProductionURL,
		SandboxURL:         cfg.Ebay.SandboxURL,
		CompatibilityLevel: cfg.Ebay.CompatibilityLevel,
		Timeout:            cfg.Ebay.Timeout,
	}, log)
	importer := integration.NewOrderImporter(
		uow,
		apis,
		integration.NewEbayPartyService(log),
		integration.NewEbayProductImporter(log),
		log,
	)
	importer.SetImportMetrics(importMetrics)

	lock, err := cache.NewImportLockFactory(cfg.Import, cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to create import lock", zap.Error(err))
	}
	if lock != nil {
		importer.SetImportLock(lock, cfg.Import.LockTTL)
		defer func() {
			if err := lock.Close(); err != nil {
				log.Warn("Error closing import lock", zap.Error(err))
			}
		}()
	}

	if cfg.Import.ArchiveEnabled {
		archive, err := storage.NewS3OrderArchive(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create order archive", zap.Error(err))
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Warn("Order archive bucket check failed", zap.Error(err))
		}
		importer.SetOrderArchive(archive)
		log.Info("Order archive enabled", zap.String("bucket", archive.Bucket()))
	}

	channels := integration.NewChannelService(uow, log)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Health: handler.NewHealthHandler(db).Health,
	})

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewImportHandler(importer, channels)).
		Register(handler.NewChannelHandler(channels)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func shutdownTelemetry(tp *telemetry.TracerProvider, mp *telemetry.MeterProvider, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
}
