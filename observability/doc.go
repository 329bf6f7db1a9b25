// Package observability wires OpenTelemetry tracing and metrics.
//
// Both exporters speak OTLP over HTTP and are off unless enabled in Config.
// When disabled, the global no-op providers stay in place so StartSpan and
// the Metrics recorders cost next to nothing.
//
//	tel, err := observability.Setup(ctx, cfg, observability.ServiceInfo{Name: "chunkscribe"})
//	defer tel.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanChunk)
//	defer observability.EndSpan(span, err)
//
// Health reports aggregate component checks for the HTTP surface.
package observability
