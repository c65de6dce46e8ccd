package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database query tracing.
type DBTracingConfig struct {
	Enabled         bool          // Enable database tracing
	LogFullSQL      bool          // Include query variables in spans (dev only)
	SlowQueryThresh time.Duration // Threshold for marking queries as slow
	DBSystem        string        // Database system name
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin wraps the otelgorm plugin with slow query detection.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// Register installs the otelgorm plugin and the slow query callbacks on the
// given GORM instance. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		// Keep query parameters out of spans
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)

	return nil
}

// registerTimingCallbacks hooks query timing around every GORM operation.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	type hook struct {
		register func() error
	}

	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
		}
	}

	hooks := []hook{
		{func() error { return db.Callback().Create().Before("gorm:create").Register("otel_timing:before_create", before) }},
		{func() error { return db.Callback().Query().Before("gorm:query").Register("otel_timing:before_query", before) }},
		{func() error { return db.Callback().Update().Before("gorm:update").Register("otel_timing:before_update", before) }},
		{func() error { return db.Callback().Delete().Before("gorm:delete").Register("otel_timing:before_delete", before) }},
		{func() error { return db.Callback().Row().Before("gorm:row").Register("otel_timing:before_row", before) }},
		{func() error { return db.Callback().Raw().Before("gorm:raw").Register("otel_timing:before_raw", before) }},
		{func() error { return db.Callback().Create().After("gorm:create").Register("otel_timing:after_create", p.afterQuery) }},
		{func() error { return db.Callback().Query().After("gorm:query").Register("otel_timing:after_query", p.afterQuery) }},
		{func() error { return db.Callback().Update().After("gorm:update").Register("otel_timing:after_update", p.afterQuery) }},
		{func() error { return db.Callback().Delete().After("gorm:delete").Register("otel_timing:after_delete", p.afterQuery) }},
		{func() error { return db.Callback().Row().After("gorm:row").Register("otel_timing:after_row", p.afterQuery) }},
		{func() error { return db.Callback().Raw().After("gorm:raw").Register("otel_timing:after_raw", p.afterQuery) }},
	}

	for _, h := range hooks {
		if err := h.register(); err != nil {
			return err
		}
	}
	return nil
}

// afterQuery enriches the active span with row counts, table names, errors
// and slow query markers.
func (p *DBTracingPlugin) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// ErrRecordNotFound is an expected outcome, not a failure
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"
