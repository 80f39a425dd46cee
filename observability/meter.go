package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InstrumentationName names the meter and tracer used by apiclient.
const InstrumentationName = "github.com/kbukum/apiclient"

// Refresh outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeReused  = "reused"
)

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
		sdkmetric.WithResource(newResource(cfg)),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Metrics holds the client's instruments. A nil *Metrics records nothing.
type Metrics struct {
	calls         metric.Int64Counter
	callDuration  metric.Float64Histogram
	refreshes      metric.Int64Counter
	refreshWaiters metric.Int64Histogram
	refreshQueued  metric.Int64Counter
}

// NewMetrics creates the instruments on meter. A nil meter uses the global provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	calls, err := meter.Int64Counter("apiclient.calls",
		metric.WithDescription("Completed client calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating apiclient.calls counter: %w", err)
	}

	callDuration, err := meter.Float64Histogram("apiclient.call.duration",
		metric.WithDescription("Duration of client calls including any refresh wait"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating apiclient.call.duration histogram: %w", err)
	}

	refreshes, err := meter.Int64Counter("apiclient.refresh",
		metric.WithDescription("Token refresh episodes by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating apiclient.refresh counter: %w", err)
	}

	refreshWaiters, err := meter.Int64Histogram("apiclient.refresh.waiters",
		metric.WithDescription("Callers released by one refresh episode, excluding the leader"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 25, 50, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("creating apiclient.refresh.waiters histogram: %w", err)
	}

	refreshQueued, err := meter.Int64Counter("apiclient.refresh.queued",
		metric.WithDescription("Calls that waited on an in-flight refresh"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating apiclient.refresh.queued counter: %w", err)
	}

	return &Metrics{
		calls:          calls,
		callDuration:   callDuration,
		refreshes:      refreshes,
		refreshWaiters: refreshWaiters,
		refreshQueued:  refreshQueued,
	}, nil
}

// RecordCall records one settled call. outcome is "ok" or an error kind.
func (m *Metrics) RecordCall(ctx context.Context, name, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", name),
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
	m.callDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("endpoint", name),
		attribute.String("method", method),
	))
}

// RecordRefresh records a finished refresh episode.
func (m *Metrics) RecordRefresh(ctx context.Context, outcome string, waiters int) {
	if m == nil {
		return
	}
	outcomeAttr := metric.WithAttributes(attribute.String("outcome", outcome))
	m.refreshes.Add(ctx, 1, outcomeAttr)
	m.refreshWaiters.Record(ctx, int64(waiters), outcomeAttr)
}

// RecordQueued records a call joining an in-flight refresh.
func (m *Metrics) RecordQueued(ctx context.Context) {
	if m == nil {
		return
	}
	m.refreshQueued.Add(ctx, 1)
}
