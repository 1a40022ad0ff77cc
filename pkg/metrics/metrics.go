package metrics

import (
	"context"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/litmuschaos/chaos-suite/pkg/utils/retry"
	"github.com/palantir/stacktrace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	MeterName = "litmuschaos.io/chaos-suite"
	JobName   = "chaos_suite"

	// status values of the completed counter
	StatusDeleted  = "deleted"
	StatusFailed   = "failed"
	StatusRetained = "retained"
)

// Recorder collects the metrics of one suite run and exposes them
// through a dedicated prometheus registry
type Recorder struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	created   metric.Int64Counter
	completed metric.Int64Counter
	failures  metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewRecorder builds the meter provider and its instruments
func NewRecorder() (*Recorder, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, stacktrace.Propagate(err, "could not create the prometheus exporter")
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(MeterName)

	r := &Recorder{registry: registry, provider: provider}
	if r.created, err = meter.Int64Counter("chaos_experiments_created",
		metric.WithDescription("Chaos experiments applied to the cluster")); err != nil {
		return nil, stacktrace.Propagate(err, "could not create the created counter")
	}
	if r.completed, err = meter.Int64Counter("chaos_experiments_completed",
		metric.WithDescription("Chaos experiments that reached the end of the run")); err != nil {
		return nil, stacktrace.Propagate(err, "could not create the completed counter")
	}
	if r.failures, err = meter.Int64Counter("chaos_suite_command_failures",
		metric.WithDescription("Cluster commands that exited non-zero")); err != nil {
		return nil, stacktrace.Propagate(err, "could not create the failures counter")
	}
	if r.duration, err = meter.Float64Histogram("chaos_suite_duration",
		metric.WithDescription("Wall time of the suite run"),
		metric.WithUnit("s")); err != nil {
		return nil, stacktrace.Propagate(err, "could not create the duration histogram")
	}
	return r, nil
}

// ExperimentApplied counts a successfully applied experiment
func (r *Recorder) ExperimentApplied(ctx context.Context, kind string) {
	r.created.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// ExperimentCompleted counts an experiment at teardown with its cleanup status
func (r *Recorder) ExperimentCompleted(ctx context.Context, kind, status string) {
	r.completed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}

// CommandFailed counts a failing cluster command of the given lifecycle state
func (r *Recorder) CommandFailed(ctx context.Context, state string) {
	r.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
}

// SuiteFinished records the run duration with its verdict
func (r *Recorder) SuiteFinished(ctx context.Context, verdict string, elapsed time.Duration) {
	r.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("verdict", verdict)))
}

// Gatherer exposes the registry the exporter writes to
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Push replaces the metrics of the run on the Pushgateway, grouped by run_id
func (r *Recorder) Push(ctx context.Context, url, runID string) error {
	pusher := push.New(url, JobName).Gatherer(r.registry).Grouping("run_id", runID)
	return retry.
		Times(3).
		Wait(2 * time.Second).
		Try(ctx, func(attempt uint) error {
			if err := pusher.PushContext(ctx); err != nil {
				log.Warnf("[Metrics]: Push to %v failed (attempt %v), err: %v", url, attempt+1, err)
				return err
			}
			return nil
		})
}

// Shutdown flushes and stops the meter provider
func (r *Recorder) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}

// Nop discards every measurement
type Nop struct{}

func (Nop) ExperimentApplied(context.Context, string)            {}
func (Nop) ExperimentCompleted(context.Context, string, string)  {}
func (Nop) CommandFailed(context.Context, string)                {}
func (Nop) SuiteFinished(context.Context, string, time.Duration) {}
