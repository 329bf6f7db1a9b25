package transcriber

import (
	"context"
	"testing"

	"github.com/kbukum/chunkscribe/chunk"
	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/transcription"
)

type recorder struct {
	name  string
	calls []transcription.Request
	err   error
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Transcribe(_ context.Context, req transcription.Request) (*transcription.Result, error) {
	r.calls = append(r.calls, req)
	if r.err != nil {
		return nil, r.err
	}
	return &transcription.Result{Text: r.name + " text"}, nil
}

func TestRouteFor(t *testing.T) {
	tests := []struct {
		size int
		want Route
	}{
		{1, RouteDirect},
		{10 * 1024 * 1024, RouteDirect},
		{chunk.MaxFileSize - 1, RouteDirect},
		{chunk.MaxFileSize, RouteDirect},
		{chunk.MaxFileSize + 1, RouteChunked},
		{100 * 1024 * 1024, RouteChunked},
	}
	for _, tc := range tests {
		if got := RouteFor(tc.size); got != tc.want {
			t.Errorf("RouteFor(%d) = %s, want %s", tc.size, got, tc.want)
		}
	}
	if chunk.MaxFileSize != 26214400 {
		t.Errorf("MaxFileSize = %d", chunk.MaxFileSize)
	}
}

func TestRouter_Dispatch(t *testing.T) {
	tests := []struct {
		name string
		size int
		want string
	}{
		{"small", 1024, "direct"},
		{"at ceiling", chunk.MaxFileSize, "direct"},
		{"one byte over", chunk.MaxFileSize + 1, "chunked"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			direct := &recorder{name: "direct"}
			chunked := &recorder{name: "chunked"}
			r := NewRouter(direct, chunked)

			req := transcription.Request{Audio: make([]byte, tc.size), APIKey: "sk-x", Model: "m"}
			res, err := r.Transcribe(context.Background(), req)
			if err != nil {
				t.Fatalf("Transcribe: %v", err)
			}
			if res.Text != tc.want+" text" {
				t.Errorf("Text = %q", res.Text)
			}

			hit, miss := direct, chunked
			if tc.want == "chunked" {
				hit, miss = chunked, direct
			}
			if len(hit.calls) != 1 || len(miss.calls) != 0 {
				t.Fatalf("calls: %s=%d %s=%d", hit.name, len(hit.calls), miss.name, len(miss.calls))
			}
			got := hit.calls[0]
			if len(got.Audio) != tc.size || got.APIKey != "sk-x" || got.Model != "m" {
				t.Error("request was not forwarded unchanged")
			}
		})
	}
}

func TestRouter_PropagatesErrors(t *testing.T) {
	cause := errors.Unauthorized("bad key")
	direct := &recorder{name: "direct", err: cause}
	r := NewRouter(direct, &recorder{name: "chunked"})

	res, err := r.Transcribe(context.Background(), transcription.Request{Audio: []byte("a"), APIKey: "k"})
	if res != nil {
		t.Error("expected nil result")
	}
	if err != cause {
		t.Errorf("err = %v, want the provider's error", err)
	}
}

func TestRouter_RejectsInvalidRequests(t *testing.T) {
	direct := &recorder{name: "direct"}
	chunked := &recorder{name: "chunked"}
	r := NewRouter(direct, chunked)

	tests := []struct {
		name string
		req  transcription.Request
	}{
		{"empty audio", transcription.Request{APIKey: "k"}},
		{"empty key", transcription.Request{Audio: []byte("a")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Transcribe(context.Background(), tc.req)
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeMissingField {
				t.Errorf("err = %v, want MISSING_FIELD", err)
			}
		})
	}
	if len(direct.calls)+len(chunked.calls) != 0 {
		t.Error("providers called for invalid requests")
	}
}
