package telemetry

import (
	"context"
	"encoding/json"
	"os"

	"github.com/litmuschaos/chaos-suite/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName  = "litmuschaos.io/chaos-suite"
	TraceParent = "TRACE_PARENT"
)

// StartSpan starts a span of the suite tracer
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// WithTraceParent joins the trace carried by the TRACE_PARENT env,
// a JSON map of propagation headers. ctx is returned as is when the env is unset or invalid.
func WithTraceParent(ctx context.Context) context.Context {
	traceParent := os.Getenv(TraceParent)
	if traceParent == "" {
		return ctx
	}

	carrier := make(map[string]string)
	if err := json.Unmarshal([]byte(traceParent), &carrier); err != nil {
		log.Warnf("[Telemetry]: Ignoring invalid %v, err: %v", TraceParent, err)
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(carrier))
}
