package observability

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/chunkscribe/logger"
)

// Telemetry owns the providers created by Setup.
type Telemetry struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	Metrics *Metrics
}

// Setup initializes whichever exporters cfg enables and builds Metrics on
// the resulting global meter.
func Setup(ctx context.Context, cfg Config, info ServiceInfo) (*Telemetry, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Telemetry{}
	log := logger.WithComponent("observability")
	if cfg.TracingEnabled {
		tp, err := InitTracer(ctx, cfg, info)
		if err != nil {
			return nil, err
		}
		t.tracer = tp
		log.Info("tracer initialized", logger.Fields("endpoint", cfg.Endpoint, "sample_rate", cfg.SampleRate))
	}
	if cfg.MetricsEnabled {
		mp, err := InitMeter(ctx, cfg, info)
		if err != nil {
			_ = t.Shutdown(ctx)
			return nil, err
		}
		t.meter = mp
		log.Info("meter initialized", logger.Fields("endpoint", cfg.Endpoint, "interval", cfg.Interval.String()))
	}

	m, err := NewMetrics(Meter())
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	t.Metrics = m
	return t, nil
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	if t.tracer != nil {
		errs = append(errs, t.tracer.Shutdown(ctx))
	}
	if t.meter != nil {
		errs = append(errs, t.meter.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
