// Package observability provides OpenTelemetry integration and audit
// logging for SDK launches.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry provides observability features. The exec path records a
// single counter before replacement; the richer signals belong to the
// dev-server supervision paths, which outlive their children.
type Telemetry interface {
	// StartSpan starts a new trace span.
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, func())

	// RecordLaunch counts a launch attempt for a tool.
	RecordLaunch(tool, status string)

	// RecordSessionDuration records a finished dev-server session.
	RecordSessionDuration(tool string, seconds float64)
}

// SpanOption configures span creation.
type SpanOption func(*spanConfig)

type spanConfig struct {
	attributes []attribute.KeyValue
	kind       trace.SpanKind
}

// WithAttribute adds an attribute to the span.
func WithAttribute(key string, value interface{}) SpanOption {
	return func(c *spanConfig) {
		switch v := value.(type) {
		case string:
			c.attributes = append(c.attributes, attribute.String(key, v))
		case int:
			c.attributes = append(c.attributes, attribute.Int(key, v))
		case int64:
			c.attributes = append(c.attributes, attribute.Int64(key, v))
		case float64:
			c.attributes = append(c.attributes, attribute.Float64(key, v))
		case bool:
			c.attributes = append(c.attributes, attribute.Bool(key, v))
		}
	}
}

// WithSpanKind sets the span kind.
func WithSpanKind(kind trace.SpanKind) SpanOption {
	return func(c *spanConfig) {
		c.kind = kind
	}
}

// TelemetryConfig configures telemetry.
type TelemetryConfig struct {
	// ServiceName is the service name for tracing.
	ServiceName string `yaml:"service_name"`

	// ServiceVersion is the service version.
	ServiceVersion string `yaml:"service_version"`

	// Environment is the deployment environment.
	Environment string `yaml:"environment"`

	// EnableTracing enables distributed tracing.
	EnableTracing bool `yaml:"enable_tracing"`

	// EnableMetrics enables metrics collection.
	EnableMetrics bool `yaml:"enable_metrics"`

	// MetricsPrefix is the prefix for all metrics.
	MetricsPrefix string `yaml:"metrics_prefix"`
}

// DefaultTelemetryConfig returns default configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		ServiceName:    "golaunch",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
		MetricsPrefix:  "golaunch_",
	}
}

// telemetry implements Telemetry.
type telemetry struct {
	config TelemetryConfig
	tracer trace.Tracer
	meter  metric.Meter

	// Metrics
	launchCounter   metric.Int64Counter
	errorCounter    metric.Int64Counter
	sessionDuration metric.Float64Histogram
}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry(config TelemetryConfig) (Telemetry, error) {
	t := &telemetry{
		config: config,
		tracer: otel.Tracer(config.ServiceName),
		meter:  otel.Meter(config.ServiceName),
	}

	var err error

	t.launchCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"launches_total",
		metric.WithDescription("Total number of tool launches"),
	)
	if err != nil {
		return nil, err
	}

	t.errorCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"launch_errors_total",
		metric.WithDescription("Total number of failed launches"),
	)
	if err != nil {
		return nil, err
	}

	t.sessionDuration, err = t.meter.Float64Histogram(
		config.MetricsPrefix+"devserver_session_duration_seconds",
		metric.WithDescription("Duration of supervised dev-server sessions"),
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// StartSpan implements Telemetry.StartSpan.
func (t *telemetry) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, func()) {
	if !t.config.EnableTracing {
		return ctx, func() {}
	}

	cfg := &spanConfig{
		kind: trace.SpanKindInternal,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name,
		trace.WithAttributes(cfg.attributes...),
		trace.WithSpanKind(cfg.kind),
	)

	return ctx, func() {
		span.End()
	}
}

// RecordLaunch implements Telemetry.RecordLaunch.
func (t *telemetry) RecordLaunch(tool, status string) {
	if !t.config.EnableMetrics {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	)
	t.launchCounter.Add(context.Background(), 1, attrs)
	if status == "error" {
		t.errorCounter.Add(context.Background(), 1, attrs)
	}
}

// RecordSessionDuration implements Telemetry.RecordSessionDuration.
func (t *telemetry) RecordSessionDuration(tool string, seconds float64) {
	if !t.config.EnableMetrics {
		return
	}

	t.sessionDuration.Record(context.Background(), seconds, metric.WithAttributes(
		attribute.String("tool", tool),
	))
}

// NoopTelemetry returns a no-op telemetry implementation.
func NoopTelemetry() Telemetry {
	return &noopTelemetry{}
}

type noopTelemetry struct{}

func (t *noopTelemetry) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, func()) {
	return ctx, func() {}
}

func (t *noopTelemetry) RecordLaunch(tool, status string) {}

func (t *noopTelemetry) RecordSessionDuration(tool string, seconds float64) {}
