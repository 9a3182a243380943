package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/arllen133/jobboard/internal/ctxutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/arllen133/jobboard/internal/database"
	meterName  = "github.com/arllen133/jobboard/internal/database"
)

// Metrics holds the OpenTelemetry metric instruments
type Metrics struct {
	QueryCount    metric.Int64Counter
	QueryDuration metric.Float64Histogram
	QueryErrors   metric.Int64Counter
}

// ObservabilityConfig holds logging, tracing, and metrics configuration
type ObservabilityConfig struct {
	Logger             *slog.Logger
	Tracer             trace.Tracer
	Metrics            *Metrics
	SlowQueryThreshold time.Duration
	LogQueries         bool // Log every statement at debug level
}

func defaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		SlowQueryThreshold: 200 * time.Millisecond,
	}
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithLogger sets the logger for the session
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.obs.Logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer for the session
func WithTracer(tracer trace.Tracer) SessionOption {
	return func(s *Session) {
		s.obs.Tracer = tracer
	}
}

// WithDefaultTracer uses the global OpenTelemetry tracer
func WithDefaultTracer() SessionOption {
	return WithTracer(otel.Tracer(tracerName))
}

// WithMeter sets the OpenTelemetry meter for metrics
func WithMeter(meter metric.Meter) SessionOption {
	return func(s *Session) {
		s.obs.Metrics = initMetrics(meter)
	}
}

// WithDefaultMeter uses the global OpenTelemetry meter
func WithDefaultMeter() SessionOption {
	return WithMeter(otel.Meter(meterName))
}

// WithSlowQueryThreshold sets the duration above which a statement is logged as slow
func WithSlowQueryThreshold(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.obs.SlowQueryThreshold = d
		}
	}
}

// WithQueryLogging enables logging of all queries
func WithQueryLogging(enabled bool) SessionOption {
	return func(s *Session) {
		s.obs.LogQueries = enabled
	}
}

func initMetrics(meter metric.Meter) *Metrics {
	queryCount, _ := meter.Int64Counter("jobboard.db.query.count",
		metric.WithDescription("Total number of SQL statements executed"),
		metric.WithUnit("{query}"),
	)

	queryDuration, _ := meter.Float64Histogram("jobboard.db.query.duration",
		metric.WithDescription("Statement execution duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)

	queryErrors, _ := meter.Int64Counter("jobboard.db.query.errors",
		metric.WithDescription("Total number of failed SQL statements"),
		metric.WithUnit("{error}"),
	)

	return &Metrics{
		QueryCount:    queryCount,
		QueryDuration: queryDuration,
		QueryErrors:   queryErrors,
	}
}

// spanWrapper wraps a trace.Span to handle nil spans gracefully
type spanWrapper struct {
	span trace.Span
}

func (w spanWrapper) End() {
	if w.span != nil {
		w.span.End()
	}
}

func (w spanWrapper) fail(err error) {
	if w.span != nil {
		w.span.RecordError(err)
		w.span.SetStatus(codes.Error, err.Error())
	}
}

func (s *Session) startSpan(ctx context.Context, operation, query string) (context.Context, spanWrapper) {
	if s.obs.Tracer == nil {
		return ctx, spanWrapper{nil}
	}
	ctx, span := s.obs.Tracer.Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", s.dialect.Name()),
			attribute.String("db.operation", operation),
			attribute.String("db.statement", query),
		),
	)
	return ctx, spanWrapper{span}
}

func (s *Session) recordMetrics(ctx context.Context, operation string, duration time.Duration, err error) {
	if s.obs.Metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.system", s.dialect.Name()),
	)

	s.obs.Metrics.QueryCount.Add(ctx, 1, attrs)
	s.obs.Metrics.QueryDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		s.obs.Metrics.QueryErrors.Add(ctx, 1, attrs)
	}
}

func (s *Session) logQuery(ctx context.Context, operation, query string, duration time.Duration, err error) {
	if s.obs.Logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Duration("duration", duration),
	}
	if id := ctxutil.GetRequestID(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}

	if s.obs.LogQueries {
		attrs = append(attrs, slog.String("query", query))
	}

	if err != nil {
		s.obs.Logger.LogAttrs(ctx, slog.LevelError, "query failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}

	if duration > s.obs.SlowQueryThreshold {
		if !s.obs.LogQueries {
			attrs = append(attrs, slog.String("query", query))
		}
		s.obs.Logger.LogAttrs(ctx, slog.LevelWarn, "slow query", attrs...)
		return
	}

	if s.obs.LogQueries {
		s.obs.Logger.LogAttrs(ctx, slog.LevelDebug, "query executed", attrs...)
	}
}
