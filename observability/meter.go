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

// Outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// InitMeter installs a global meter provider exporting to cfg.Endpoint.
// The caller must shut the returned provider down.
func InitMeter(ctx context.Context, cfg Config, info ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(info)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the package meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the transcription pipeline instruments. A nil *Metrics
// records nothing.
type Metrics struct {
	requests        metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestBytes    metric.Int64Histogram
	chunks          metric.Int64Counter
	chunkDuration   metric.Float64Histogram
	errors          metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.requests, err = meter.Int64Counter("transcription.requests",
		metric.WithDescription("Transcription requests by route and outcome")); err != nil {
		return nil, fmt.Errorf("creating transcription.requests counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("transcription.duration",
		metric.WithDescription("End-to-end transcription latency"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating transcription.duration histogram: %w", err)
	}
	if m.requestBytes, err = meter.Int64Histogram("transcription.payload_size",
		metric.WithDescription("Size of submitted audio"), metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("creating transcription.payload_size histogram: %w", err)
	}
	if m.chunks, err = meter.Int64Counter("transcription.chunks",
		metric.WithDescription("Chunks processed by outcome")); err != nil {
		return nil, fmt.Errorf("creating transcription.chunks counter: %w", err)
	}
	if m.chunkDuration, err = meter.Float64Histogram("transcription.chunk.duration",
		metric.WithDescription("Extract plus upload latency per chunk"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating transcription.chunk.duration histogram: %w", err)
	}
	if m.errors, err = meter.Int64Counter("transcription.errors",
		metric.WithDescription("Failures by error code and pipeline step")); err != nil {
		return nil, fmt.Errorf("creating transcription.errors counter: %w", err)
	}
	return &m, nil
}

// RecordRequest records one finished request.
func (m *Metrics) RecordRequest(ctx context.Context, route, status string, bytes int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("route", route), attribute.String("status", status))
	m.requests.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, d.Seconds(), attrs)
	m.requestBytes.Record(ctx, int64(bytes), metric.WithAttributes(attribute.String("route", route)))
}

// RecordChunk records one processed chunk.
func (m *Metrics) RecordChunk(ctx context.Context, status string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.chunks.Add(ctx, 1, attrs)
	m.chunkDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordError counts a failure.
func (m *Metrics) RecordError(ctx context.Context, code, step string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("step", step),
	))
}
