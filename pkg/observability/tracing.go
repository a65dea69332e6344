// Package observability wires OpenTelemetry tracing for colcodec.
//
// Until InitTracing installs a provider, spans go to the global no-op
// provider, so instrumented code pays almost nothing when tracing is off.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ajitpratap0/colcodec"

// TracingConfig contains tracing configuration
type TracingConfig struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string  `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string  `yaml:"service_version" mapstructure:"service_version"`
	Exporter       string  `yaml:"exporter" mapstructure:"exporter"` // "stdout" or "none"
	SamplingRate   float64 `yaml:"sampling_rate" mapstructure:"sampling_rate"`

	// Writer receives stdout exporter output; defaults to os.Stderr
	Writer io.Writer `yaml:"-" mapstructure:"-"`
}

var (
	mu     sync.RWMutex
	tracer trace.Tracer = otel.Tracer(instrumentationName)
)

// ShutdownFunc flushes and stops the installed provider
type ShutdownFunc func(context.Context) error

// InitTracing installs a tracer provider built from config. When tracing is
// disabled it leaves the no-op provider in place and returns a no-op shutdown.
func InitTracing(config TracingConfig) (ShutdownFunc, error) {
	if !config.Enabled || config.Exporter == "none" {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdktrace.SpanExporter
	switch config.Exporter {
	case "stdout", "":
		w := config.Writer
		if w == nil {
			w = os.Stderr
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported trace exporter %q", config.Exporter)
	}

	var sampler sdktrace.Sampler
	if config.SamplingRate <= 0 {
		sampler = sdktrace.NeverSample()
	} else if config.SamplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(config.SamplingRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	SetTracer(tp.Tracer(instrumentationName))

	return tp.Shutdown, nil
}

// Tracer returns the tracer used for block spans
func Tracer() trace.Tracer {
	mu.RLock()
	defer mu.RUnlock()
	return tracer
}

// SetTracer replaces the tracer, mainly for tests
func SetTracer(t trace.Tracer) {
	mu.Lock()
	tracer = t
	mu.Unlock()
}

// Span wraps one block transform
type Span struct {
	span      trace.Span
	startTime time.Time
}

// StartBlockSpan starts a span named after the function for a block of rows
func StartBlockSpan(ctx context.Context, function string, rows int) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, function,
		trace.WithAttributes(
			attribute.String("colcodec.function", function),
			attribute.Int("colcodec.rows", rows),
		),
	)
	return ctx, &Span{span: span, startTime: time.Now()}
}

// SetAttributes adds attributes to the span
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

// End records err, if any, and ends the span
func (s *Span) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.SetAttributes(attribute.Int64("colcodec.duration_ns", time.Since(s.startTime).Nanoseconds()))
	s.span.End()
}
