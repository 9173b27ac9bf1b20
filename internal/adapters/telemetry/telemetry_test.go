package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/ngen/internal/adapters/telemetry"
	"go.trai.ch/ngen/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
}

func newRecorder(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return telemetry.NewOTelTracerFromProvider(provider, "test"), recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestOTelTracer_StartAppliesAttributes(t *testing.T) {
	tracer, recorder := newRecorder(t)

	_, span := tracer.Start(context.Background(), "lower app",
		ports.WithAttribute("target", "app"),
		ports.WithAttribute("sources", 3),
	)
	span.SetAttribute("kind", "EXECUTABLE")
	span.SetAttribute("outputs", []string{"app", "app-1.0"})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "lower app", ended[0].Name())

	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "app", attrs["target"].AsString())
	assert.Equal(t, int64(3), attrs["sources"].AsInt64())
	assert.Equal(t, "EXECUTABLE", attrs["kind"].AsString())
	assert.Equal(t, []string{"app", "app-1.0"}, attrs["outputs"].AsStringSlice())
}

func TestOTelSpan_RecordError(t *testing.T) {
	tracer, recorder := newRecorder(t)

	_, span := tracer.Start(context.Background(), "generate")
	span.RecordError(nil)
	span.RecordError(errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	tracer, recorder := newRecorder(t)

	ctx, span := tracer.Start(context.Background(), "generate")
	tracer.EmitPlan(ctx, []string{"lib", "app"})
	span.End()

	// Without an active span the plan is dropped.
	tracer.EmitPlan(context.Background(), []string{"ignored"})

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	events := ended[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
	assert.Equal(t, []string{"lib", "app"}, attrMap(events[0].Attributes)["targets"].AsStringSlice())
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, got)
	require.NotNil(t, span)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
	tracer.EmitPlan(ctx, []string{"a"})
}
