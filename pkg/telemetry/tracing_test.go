package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestInitOTelSDKWithoutEndpoint(t *testing.T) {
	shutdown, err := InitOTelSDK(context.Background(), "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestWithTraceParent(t *testing.T) {
	otel.SetTextMapPropagator(newPropagator())

	t.Run("joins parent trace", func(t *testing.T) {
		t.Setenv(TraceParent, `{"traceparent":"00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"}`)
		sc := trace.SpanContextFromContext(WithTraceParent(context.Background()))
		assert.True(t, sc.IsValid())
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
	})

	t.Run("invalid env is ignored", func(t *testing.T) {
		t.Setenv(TraceParent, "not-json")
		ctx := context.Background()
		assert.Equal(t, ctx, WithTraceParent(ctx))
	})

	t.Run("unset env", func(t *testing.T) {
		t.Setenv(TraceParent, "")
		assert.False(t, trace.SpanContextFromContext(WithTraceParent(context.Background())).IsValid())
	})
}

func TestStartSpanWithoutProvider(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	ctx, span := StartSpan(context.Background(), "Suite")
	defer span.End()
	assert.NotNil(t, ctx)
}
