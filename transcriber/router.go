// Package transcriber is the entry point for transcription requests. It picks
// the direct or chunked path from the payload size and delegates.
package transcriber

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/chunkscribe/chunk"
	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/observability"
	"github.com/kbukum/chunkscribe/transcription"
	"github.com/kbukum/chunkscribe/util"
)

// Route is the path a request takes.
type Route string

const (
	RouteDirect  Route = "direct"
	RouteChunked Route = "chunked"
)

// RouteFor returns RouteChunked only when size is strictly above the remote
// ceiling. A payload of exactly chunk.MaxFileSize bytes is sent directly.
func RouteFor(size int) Route {
	if size > chunk.MaxFileSize {
		return RouteChunked
	}
	return RouteDirect
}

var _ transcription.Provider = (*Router)(nil)

// Router dispatches requests to the direct or chunked provider.
type Router struct {
	direct  transcription.Provider
	chunked transcription.Provider
	log     *logger.Logger
	metrics *observability.Metrics
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Router) { r.log = l }
}

// WithMetrics sets the metric recorder.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// NewRouter creates a Router. direct handles payloads up to the ceiling and
// chunked handles everything above it.
func NewRouter(direct, chunked transcription.Provider, opts ...Option) *Router {
	r := &Router{direct: direct, chunked: chunked, log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("transcriber")
	return r
}

// Name implements transcription.Provider.
func (r *Router) Name() string { return "router" }

// Transcribe validates req and hands it to the provider for its route. The
// request is forwarded unchanged and the provider's error is returned as is.
func (r *Router) Transcribe(ctx context.Context, req transcription.Request) (result *transcription.Result, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	size := len(req.Audio)
	route := RouteFor(size)
	provider := r.direct
	if route == RouteChunked {
		provider = r.chunked
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe,
		attribute.String(observability.AttrRoute, string(route)),
		attribute.String(observability.AttrProvider, provider.Name()),
		attribute.Int(observability.AttrPayloadBytes, size),
	)
	defer func() { observability.EndSpan(span, err) }()

	log := r.log.WithContext(ctx)
	log.Info("routing transcription", logger.Fields(
		"route", string(route),
		logger.FieldBytes, size,
		"size", util.FormatBytes(int64(size)),
	))

	start := time.Now()
	result, err = provider.Transcribe(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		r.metrics.RecordRequest(ctx, string(route), observability.StatusError, size, elapsed)
		code := "UNKNOWN"
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		log.Error("transcription failed", logger.Fields(
			"route", string(route),
			"code", code,
			logger.FieldError, err.Error(),
			logger.FieldDuration, elapsed.Milliseconds(),
		))
		return nil, err
	}

	r.metrics.RecordRequest(ctx, string(route), observability.StatusOK, size, elapsed)
	log.Info("transcription complete", logger.Fields(
		"route", string(route),
		"characters", len(result.Text),
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return result, nil
}
