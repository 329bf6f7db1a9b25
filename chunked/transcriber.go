package chunked

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/chunkscribe/chunk"
	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/observability"
	"github.com/kbukum/chunkscribe/transcription"
	"github.com/kbukum/chunkscribe/workspace"
)

// ProviderName is the name reported by Transcriber.Name.
const ProviderName = "chunked"

// InputFileName is the name the payload is stored under in the session.
const InputFileName = "input_audio.mp3"

// ChunkFileName returns the session file name for chunk i.
func ChunkFileName(i int) string {
	return fmt.Sprintf("chunk_%d.mp3", i)
}

// Media probes and cuts recordings. *ffmpeg.Tool implements it.
type Media interface {
	Probe(ctx context.Context, path string) (float64, error)
	Extract(ctx context.Context, in, out string, start, duration float64) error
}

var _ transcription.Provider = (*Transcriber)(nil)

// Transcriber splits a payload and transcribes it chunk by chunk through an
// upstream provider. It is safe for concurrent use; each call gets its own
// workspace session.
type Transcriber struct {
	media     Media
	upstream  transcription.Provider
	workspace *workspace.Workspace
	log       *logger.Logger
	metrics   *observability.Metrics
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(t *Transcriber) { t.log = l }
}

// WithMetrics sets the metric recorder.
func WithMetrics(m *observability.Metrics) Option {
	return func(t *Transcriber) { t.metrics = m }
}

// New creates a Transcriber.
func New(media Media, upstream transcription.Provider, ws *workspace.Workspace, opts ...Option) *Transcriber {
	t := &Transcriber{
		media:     media,
		upstream:  upstream,
		workspace: ws,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.WithComponent("chunked")
	return t
}

// Name implements transcription.Provider.
func (t *Transcriber) Name() string { return ProviderName }

// Transcribe runs the full split, transcribe and join pipeline for req.
func (t *Transcriber) Transcribe(ctx context.Context, req transcription.Request) (result *transcription.Result, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "chunked.transcribe",
		attribute.Int(observability.AttrPayloadBytes, len(req.Audio)))
	defer func() { observability.EndSpan(span, err) }()

	sess, err := t.workspace.NewSession()
	if err != nil {
		return nil, err
	}
	log := t.log.WithContext(ctx).WithFields(logger.Fields("session", sess.ID()))
	defer func() {
		// Close logs its own failure; cleanup never changes the outcome.
		_ = sess.Close()
	}()

	inputPath, err := sess.WriteFile(InputFileName, req.Audio)
	if err != nil {
		return nil, err
	}

	total, err := t.probe(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, errors.InvalidMedia(fmt.Sprintf("audio duration is %.3fs; nothing to split", total)).
			WithDetail("duration", total)
	}

	plan := chunk.NewPlan(int64(len(req.Audio)), total)
	span.SetAttributes(
		attribute.Float64(observability.AttrDurationSec, total),
		attribute.Int(observability.AttrChunkCount, plan.ChunkCount),
	)
	log.Info("split plan", logger.Fields(
		"size_mb", fmt.Sprintf("%.2f", chunk.SizeMB(int64(len(req.Audio)))),
		"duration_s", total,
		logger.FieldChunkCount, plan.ChunkCount,
		"chunk_duration_s", plan.ChunkDuration,
	))

	texts := make([]string, 0, plan.ChunkCount)
	for i := 0; i < plan.ChunkCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		spec, ok := plan.Spec(i, total)
		if !ok {
			log.Debug("skipping residual chunk", logger.Fields(
				logger.FieldChunkIndex, i, "duration_s", spec.Duration,
			))
			continue
		}

		start := time.Now()
		text, err := t.processChunk(ctx, log, sess, inputPath, spec, req)
		if err != nil {
			t.metrics.RecordChunk(ctx, observability.StatusError, time.Since(start))
			t.recordFailure(ctx, err)
			log.Error("chunk failed", logger.Fields(
				logger.FieldChunkIndex, i, logger.FieldError, err.Error(),
			))
			return nil, err
		}
		t.metrics.RecordChunk(ctx, observability.StatusOK, time.Since(start))
		texts = append(texts, text)
	}

	joined := chunk.Join(texts)
	log.Info("chunked transcription complete", logger.Fields(
		logger.FieldChunkCount, len(texts), "characters", len(joined),
	))
	return &transcription.Result{Text: joined}, nil
}

func (t *Transcriber) probe(ctx context.Context, path string) (seconds float64, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanProbe)
	defer func() { observability.EndSpan(span, err) }()
	seconds, err = t.media.Probe(ctx, path)
	if err != nil {
		t.recordFailure(ctx, err)
	}
	return seconds, err
}

// processChunk extracts, verifies, reads and transcribes one chunk, then
// removes its file.
func (t *Transcriber) processChunk(
	ctx context.Context,
	log *logger.Logger,
	sess *workspace.Session,
	inputPath string,
	spec chunk.Spec,
	req transcription.Request,
) (text string, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanChunk,
		attribute.Int(observability.AttrChunkIndex, spec.Index),
		attribute.Float64(observability.AttrChunkStart, spec.Start),
		attribute.Float64(observability.AttrChunkDuration, spec.Duration),
	)
	defer func() { observability.EndSpan(span, err) }()

	name := ChunkFileName(spec.Index)
	fail := func(step Step, cause error) (string, error) {
		return "", &ChunkError{Index: spec.Index, Step: step, Err: cause}
	}

	chunkPath, err := sess.Path(name)
	if err != nil {
		return fail(StepExtract, err)
	}
	if err := t.media.Extract(ctx, inputPath, chunkPath, spec.Start, spec.Duration); err != nil {
		return fail(StepExtract, err)
	}
	defer func() {
		if rmErr := sess.Remove(name); rmErr != nil {
			log.Warn("failed to remove chunk file", logger.Fields(
				logger.FieldChunkIndex, spec.Index, logger.FieldError, rmErr.Error(),
			))
		}
	}()

	size, err := sess.Size(name)
	if err != nil {
		return fail(StepVerify, err)
	}
	if size == 0 {
		return fail(StepVerify, errors.InvalidMedia(fmt.Sprintf("extracted %s is empty", spec)).
			WithDetail(logger.FieldPath, chunkPath))
	}

	data, err := sess.ReadFile(name)
	if err != nil {
		return fail(StepRead, err)
	}
	log.Debug("chunk extracted", logger.Fields(
		logger.FieldChunkIndex, spec.Index, logger.FieldBytes, len(data),
		"start_s", spec.Start, "duration_s", spec.Duration,
	))

	res, err := t.upstream.Transcribe(ctx, transcription.Request{
		Audio:  data,
		APIKey: req.APIKey,
		Model:  req.Model,
	})
	if err != nil {
		return fail(StepTranscribe, err)
	}

	log.Info("chunk transcribed", logger.Fields(
		logger.FieldChunkIndex, spec.Index, "characters", len(res.Text),
	))
	return res.Text, nil
}

func (t *Transcriber) recordFailure(ctx context.Context, err error) {
	step := "probe"
	if ce, ok := err.(*ChunkError); ok {
		step = string(ce.Step)
	}
	code := "UNKNOWN"
	if appErr, ok := errors.AsAppError(err); ok {
		code = string(appErr.Code)
	}
	t.metrics.RecordError(ctx, code, step)
}
