package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	DBName          string
	WithVariables   bool          // include bound values in db.statement, dev only
	SlowQueryThresh time.Duration // default 200ms
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin on db and flags slow
// queries on the active span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.WithVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		markSlowQuery(tx, cfg.SlowQueryThresh)
	}

	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("slow_query:before_create", before),
		cb.Create().After("gorm:create").Register("slow_query:after_create", after),
		cb.Query().Before("gorm:query").Register("slow_query:before_query", before),
		cb.Query().After("gorm:query").Register("slow_query:after_query", after),
		cb.Update().Before("gorm:update").Register("slow_query:before_update", before),
		cb.Update().After("gorm:update").Register("slow_query:after_update", after),
		cb.Delete().Before("gorm:delete").Register("slow_query:before_delete", before),
		cb.Delete().After("gorm:delete").Register("slow_query:after_delete", after),
		cb.Row().Before("gorm:row").Register("slow_query:before_row", before),
		cb.Row().After("gorm:row").Register("slow_query:after_row", after),
		cb.Raw().Before("gorm:raw").Register("slow_query:before_raw", before),
		cb.Raw().After("gorm:raw").Register("slow_query:after_raw", after),
	}
	for _, err := range registrations {
		if err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
