package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := Tracer()
	SetTracer(tp.Tracer("test"))
	t.Cleanup(func() { SetTracer(prev) })
	return rec
}

func TestStartBlockSpan(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartBlockSpan(context.Background(), "base64Encode", 3)
	span.End(nil)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "base64Encode", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestSpanRecordsError(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartBlockSpan(context.Background(), "base64Decode", 1)
	span.End(errors.New("bad row"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "bad row", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracingStdout(t *testing.T) {
	prev := Tracer()
	t.Cleanup(func() { SetTracer(prev) })

	var buf bytes.Buffer
	shutdown, err := InitTracing(TracingConfig{
		Enabled:      true,
		ServiceName:  "colcodec-test",
		Exporter:     "stdout",
		SamplingRate: 1,
		Writer:       &buf,
	})
	require.NoError(t, err)

	_, span := StartBlockSpan(context.Background(), "tryBase64Decode", 2)
	span.End(nil)
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "tryBase64Decode")
}

func TestInitTracingUnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{Enabled: true, Exporter: "jaeger"})
	assert.Error(t, err)
}
