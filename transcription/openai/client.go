package openai

import (
	"context"
	"net/http"
	"time"

	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/httpclient"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/transcription"
	"github.com/kbukum/chunkscribe/util"
	"github.com/kbukum/chunkscribe/version"
)

const (
	// ProviderName is the name reported by Client.Name.
	ProviderName = "openai"

	serviceName        = "OpenAI"
	transcriptionsPath = "/audio/transcriptions"
	uploadFileName     = "audio.mp3"
	uploadContentType  = "audio/mpeg"
)

var _ transcription.Provider = (*Client)(nil)

// Client uploads a single payload to the transcription endpoint. It performs
// no size checks; payloads over the endpoint's ceiling are rejected remotely.
type Client struct {
	http  *httpclient.Client
	model string
	log   *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client from cfg after applying defaults.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		TLS:     cfg.TLS,
		Headers: map[string]string{"User-Agent": version.UserAgent()},
	})
	if err != nil {
		return nil, err
	}

	c := &Client{http: hc, model: cfg.Model, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("openai")
	return c, nil
}

// Name implements transcription.Provider.
func (c *Client) Name() string { return ProviderName }

type transcriptionResponse struct {
	Text *string `json:"text"`
}

// Transcribe uploads req.Audio as one multipart request authenticated with
// req.APIKey and returns the "text" field of the response.
func (c *Client) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	model := util.Coalesce(req.Model, c.model)

	start := time.Now()
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   transcriptionsPath,
		Auth:   httpclient.BearerAuth(req.APIKey),
		Body: &httpclient.MultipartBody{
			Fields: map[string]string{"model": model},
			Files: []httpclient.FileField{{
				FieldName:   "file",
				FileName:    uploadFileName,
				ContentType: uploadContentType,
				Data:        req.Audio,
			}},
		},
	})
	if err != nil {
		return nil, toAppError(err)
	}

	var body transcriptionResponse
	if err := httpclient.DecodeJSON(resp, &body); err != nil {
		return nil, toAppError(err)
	}
	if body.Text == nil {
		return nil, errors.Transport(serviceName, "decode", nil).
			WithDetail("body", string(resp.Body))
	}

	c.log.Debug("transcribed", logger.Fields(
		logger.FieldBytes, len(req.Audio),
		"model", model,
		"characters", len(*body.Text),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return &transcription.Result{Text: *body.Text}, nil
}

// toAppError maps a classified client failure onto the service taxonomy.
func toAppError(err error) error {
	hErr, ok := httpclient.AsError(err)
	if !ok {
		return errors.Internal(err)
	}
	switch {
	case hErr.IsStatus() && hErr.Code == httpclient.ErrCodeAuth:
		remote := errors.RemoteAPI(serviceName, hErr.StatusCode, string(hErr.Body))
		return errors.Unauthorized(remote.Message).WithDetails(remote.Details).WithCause(err)
	case hErr.IsStatus():
		return errors.RemoteAPI(serviceName, hErr.StatusCode, string(hErr.Body)).WithCause(err)
	case hErr.Code == httpclient.ErrCodeDecode:
		return errors.Transport(serviceName, "decode", err).WithDetail("body", string(hErr.Body))
	case hErr.Code == httpclient.ErrCodeTimeout:
		return errors.Transport(serviceName, "timeout", err)
	case hErr.Code == httpclient.ErrCodeRequest:
		return errors.Internal(err)
	default:
		return errors.Transport(serviceName, "connection", err)
	}
}
