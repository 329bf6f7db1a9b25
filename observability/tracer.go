package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/chunkscribe"

// Span names.
const (
	SpanTranscribe = "transcribe"
	SpanProbe      = "ffmpeg.probe"
	SpanChunk      = "chunk"
	SpanExtract    = "ffmpeg.extract"
	SpanUpload     = "transcription.upload"
)

// Attribute keys.
const (
	AttrRoute         = "transcription.route"
	AttrProvider      = "transcription.provider"
	AttrPayloadBytes  = "audio.bytes"
	AttrDurationSec   = "audio.duration_s"
	AttrChunkIndex    = "chunk.index"
	AttrChunkCount    = "chunk.count"
	AttrChunkStart    = "chunk.start_s"
	AttrChunkDuration = "chunk.duration_s"
	AttrRequestID     = "request.id"
)

// InitTracer installs a global tracer provider exporting to cfg.Endpoint.
// The caller must shut the returned provider down.
func InitTracer(ctx context.Context, cfg Config, info ServiceInfo) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(info)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler(cfg.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

func newResource(info ServiceInfo) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{attribute.String("service.name", info.Name)}
	if info.Version != "" {
		attrs = append(attrs, attribute.String("service.version", info.Version))
	}
	if info.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", info.Environment))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a span on the package tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err, if any, as the span status and ends the span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
