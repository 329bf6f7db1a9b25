package server

import (
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/chunkscribe/chunked"
	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/transcriber"
	"github.com/kbukum/chunkscribe/transcription"
	"github.com/kbukum/chunkscribe/util"
)

// TranscriptionsPath is the upload endpoint.
const TranscriptionsPath = "/v1/transcriptions"

// TranscriptionResponse is the data payload of a successful upload.
type TranscriptionResponse struct {
	Text  string `json:"text"`
	Route string `json:"route"`
	Bytes int    `json:"bytes"`
}

// TranscriptionHandler accepts audio over HTTP and runs it through a
// transcription provider.
type TranscriptionHandler struct {
	provider      transcription.Provider
	defaultAPIKey string
	log           *logger.Logger
}

// NewTranscriptionHandler creates a handler. defaultAPIKey is used when the
// request carries no credential of its own; it may be empty.
func NewTranscriptionHandler(p transcription.Provider, defaultAPIKey string, log *logger.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{
		provider:      p,
		defaultAPIKey: defaultAPIKey,
		log:           log.WithComponent("handler"),
	}
}

// Register mounts the handler on r.
func (h *TranscriptionHandler) Register(r gin.IRoutes) {
	r.POST(TranscriptionsPath, h.Transcribe)
}

// Transcribe handles POST /v1/transcriptions. The audio is either the "file"
// part of a multipart form or the raw request body. The key comes from a
// Bearer token, X-API-Key, or the configured default, in that order.
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	audio, model, err := readAudio(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	req := transcription.Request{
		Audio:  audio,
		APIKey: util.Coalesce(bearerToken(c.GetHeader("Authorization")), c.GetHeader("X-API-Key"), h.defaultAPIKey),
		Model:  util.Coalesce(model, c.Query("model")),
	}

	res, err := h.provider.Transcribe(c.Request.Context(), req)
	if err != nil {
		err = annotate(err)
		h.log.WithContext(c.Request.Context()).Warn("transcription request failed", logger.Fields(
			logger.FieldBytes, len(audio), logger.FieldError, err.Error(),
		))
		RespondWithError(c, err)
		return
	}

	RespondOK(c, TranscriptionResponse{
		Text:  res.Text,
		Route: string(transcriber.RouteFor(len(audio))),
		Bytes: len(audio),
	})
}

func readAudio(c *gin.Context) (audio []byte, model string, err error) {
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType != "multipart/form-data" {
		audio, err = io.ReadAll(c.Request.Body)
		return audio, "", wrapReadError(err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) {
			return nil, "", errors.MissingField("file")
		}
		return nil, "", wrapReadError(err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", errors.Internal(err)
	}
	defer f.Close()

	audio, err = io.ReadAll(f)
	if err != nil {
		return nil, "", wrapReadError(err)
	}
	return audio, c.PostForm("model"), nil
}

func wrapReadError(err error) error {
	if err == nil {
		return nil
	}
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.PayloadTooLarge(maxErr.Limit)
	}
	return errors.InvalidInput("body", "could not read request body").WithCause(err)
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// annotate copies chunk position into the AppError details so clients can
// see which chunk failed.
func annotate(err error) error {
	var ce *chunked.ChunkError
	if !stderrors.As(err, &ce) {
		return err
	}
	if appErr, ok := errors.AsAppError(ce.Err); ok {
		appErr.WithDetail(logger.FieldChunkIndex, ce.Index).WithDetail(logger.FieldStep, string(ce.Step))
	}
	return err
}
