package chunked

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/transcription"
	"github.com/kbukum/chunkscribe/workspace"
)

const mb = 1024 * 1024

type extractCall struct {
	in, out         string
	start, duration float64
}

type fakeMedia struct {
	mu       sync.Mutex
	duration float64
	probeErr error
	// failAt makes Extract fail for that chunk index; -1 disables.
	failAt     int
	extractErr error
	emptyAt    int
	probes     []string
	extracts   []extractCall
}

func newFakeMedia(duration float64) *fakeMedia {
	return &fakeMedia{duration: duration, failAt: -1, emptyAt: -1}
}

func (f *fakeMedia) Probe(_ context.Context, path string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, path)
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	return f.duration, f.probeErr
}

func (f *fakeMedia) Extract(_ context.Context, in, out string, start, duration float64) error {
	f.mu.Lock()
	idx := len(f.extracts)
	f.extracts = append(f.extracts, extractCall{in, out, start, duration})
	f.mu.Unlock()

	if idx == f.failAt {
		return f.extractErr
	}
	var data []byte
	if idx != f.emptyAt {
		data = []byte(fmt.Sprintf("audio-%d", idx))
	}
	return os.WriteFile(out, data, 0o600)
}

type fakeProvider struct {
	mu    sync.Mutex
	texts []string
	// failOn makes the n-th call (0-based) fail with err; -1 disables.
	failOn int
	err    error
	calls  []transcription.Request
	hook   func(call int)
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Transcribe(_ context.Context, req transcription.Request) (*transcription.Result, error) {
	p.mu.Lock()
	n := len(p.calls)
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if p.hook != nil {
		p.hook(n)
	}
	if n == p.failOn {
		return nil, p.err
	}
	return &transcription.Result{Text: p.texts[n]}, nil
}

func newWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(workspace.Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	return ws
}

func requireEmpty(t *testing.T, ws *workspace.Workspace) {
	t.Helper()
	entries, err := os.ReadDir(ws.BasePath())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("workspace not cleaned up, found %d entries (first %q)", len(entries), entries[0].Name())
	}
}

func request(size int) transcription.Request {
	return transcription.Request{Audio: make([]byte, size), APIKey: "sk-test", Model: "whisper-1"}
}

func TestTranscribe_JoinsChunksInOrder(t *testing.T) {
	ws := newWorkspace(t)
	media := newFakeMedia(300)
	upstream := &fakeProvider{texts: []string{"one", "two", "three"}, failOn: -1}
	tr := New(media, upstream, ws)

	res, err := tr.Transcribe(context.Background(), request(45*mb))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Text != "one two three" {
		t.Errorf("Text = %q", res.Text)
	}

	if len(media.probes) != 1 || filepath.Base(media.probes[0]) != InputFileName {
		t.Errorf("probes = %v", media.probes)
	}
	want := []struct{ start, duration float64 }{{0, 100}, {100, 100}, {200, 100}}
	if len(media.extracts) != len(want) {
		t.Fatalf("extract calls = %d, want %d", len(media.extracts), len(want))
	}
	for i, w := range want {
		c := media.extracts[i]
		if c.start != w.start || c.duration != w.duration {
			t.Errorf("chunk %d range = (%v, %v), want (%v, %v)", i, c.start, c.duration, w.start, w.duration)
		}
		if filepath.Base(c.out) != ChunkFileName(i) {
			t.Errorf("chunk %d out = %q", i, c.out)
		}
		if c.in != media.probes[0] {
			t.Errorf("chunk %d in = %q, want %q", i, c.in, media.probes[0])
		}
	}

	for i, call := range upstream.calls {
		if string(call.Audio) != fmt.Sprintf("audio-%d", i) {
			t.Errorf("call %d audio = %q", i, call.Audio)
		}
		if call.APIKey != "sk-test" || call.Model != "whisper-1" {
			t.Errorf("call %d did not pass credentials through: %+v", i, call)
		}
	}
	requireEmpty(t, ws)
}

func TestTranscribe_SingleChunkForSmallPayload(t *testing.T) {
	ws := newWorkspace(t)
	media := newFakeMedia(42.5)
	upstream := &fakeProvider{texts: []string{"only"}, failOn: -1}

	res, err := New(media, upstream, ws).Transcribe(context.Background(), request(1024))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Text != "only" {
		t.Errorf("Text = %q", res.Text)
	}
	if len(media.extracts) != 1 || media.extracts[0].start != 0 || media.extracts[0].duration != 42.5 {
		t.Errorf("extracts = %+v", media.extracts)
	}
}

func TestTranscribe_FailureMidwayReturnsNoPartialResult(t *testing.T) {
	ws := newWorkspace(t)
	media := newFakeMedia(300)
	upstream := &fakeProvider{
		texts:  []string{"one", "two", "three"},
		failOn: 1,
		err:    errors.RemoteAPI("OpenAI", 500, "boom"),
	}

	res, err := New(media, upstream, ws).Transcribe(context.Background(), request(45*mb))
	if err == nil {
		t.Fatal("expected error")
	}
	if res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}

	var ce *ChunkError
	if !stderrors.As(err, &ce) {
		t.Fatalf("error %T is not a ChunkError", err)
	}
	if ce.Index != 1 || ce.Step != StepTranscribe {
		t.Errorf("ChunkError = index %d step %s", ce.Index, ce.Step)
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeRemoteAPI {
		t.Errorf("underlying error = %v", err)
	}
	if len(upstream.calls) != 2 {
		t.Errorf("upstream calls = %d, want 2", len(upstream.calls))
	}
	if len(media.extracts) != 2 {
		t.Errorf("extract calls = %d, want 2", len(media.extracts))
	}
	requireEmpty(t, ws)
}

func TestTranscribe_ChunkStepFailures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(m *fakeMedia)
		wantStep Step
		wantCode errors.ErrorCode
	}{
		{
			name: "extract fails",
			setup: func(m *fakeMedia) {
				m.failAt = 0
				m.extractErr = errors.SubprocessFailed("ffmpeg", 1, "Invalid data", "")
			},
			wantStep: StepExtract,
			wantCode: errors.ErrCodeSubprocess,
		},
		{
			name:     "empty chunk",
			setup:    func(m *fakeMedia) { m.emptyAt = 0 },
			wantStep: StepVerify,
			wantCode: errors.ErrCodeInvalidMedia,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ws := newWorkspace(t)
			media := newFakeMedia(60)
			tc.setup(media)
			upstream := &fakeProvider{texts: []string{"x"}, failOn: -1}

			_, err := New(media, upstream, ws).Transcribe(context.Background(), request(1024))
			var ce *ChunkError
			if !stderrors.As(err, &ce) {
				t.Fatalf("expected ChunkError, got %v", err)
			}
			if ce.Index != 0 || ce.Step != tc.wantStep {
				t.Errorf("ChunkError = index %d step %s", ce.Index, ce.Step)
			}
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != tc.wantCode {
				t.Errorf("code = %v, want %s", err, tc.wantCode)
			}
			if len(upstream.calls) != 0 {
				t.Errorf("upstream called %d times", len(upstream.calls))
			}
			requireEmpty(t, ws)
		})
	}
}

func TestTranscribe_ProbeErrors(t *testing.T) {
	t.Run("probe fails", func(t *testing.T) {
		ws := newWorkspace(t)
		media := newFakeMedia(0)
		media.probeErr = errors.ToolNotFound("ffmpeg")
		upstream := &fakeProvider{failOn: -1}

		_, err := New(media, upstream, ws).Transcribe(context.Background(), request(1024))
		var ce *ChunkError
		if stderrors.As(err, &ce) {
			t.Fatalf("probe failure should not be a ChunkError: %v", err)
		}
		appErr, ok := errors.AsAppError(err)
		if !ok || appErr.Code != errors.ErrCodeToolNotFound {
			t.Errorf("err = %v", err)
		}
		if len(media.extracts) != 0 || len(upstream.calls) != 0 {
			t.Error("nothing should run after a failed probe")
		}
		requireEmpty(t, ws)
	})

	for _, d := range []float64{0, -3} {
		t.Run(fmt.Sprintf("duration %v", d), func(t *testing.T) {
			ws := newWorkspace(t)
			_, err := New(newFakeMedia(d), &fakeProvider{failOn: -1}, ws).
				Transcribe(context.Background(), request(1024))
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeInvalidMedia {
				t.Errorf("err = %v, want INVALID_MEDIA", err)
			}
			requireEmpty(t, ws)
		})
	}
}

func TestTranscribe_ValidatesBeforeTouchingDisk(t *testing.T) {
	ws := newWorkspace(t)
	media := newFakeMedia(60)

	_, err := New(media, &fakeProvider{failOn: -1}, ws).
		Transcribe(context.Background(), transcription.Request{Audio: []byte("x")})
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeMissingField {
		t.Fatalf("err = %v, want MISSING_FIELD", err)
	}
	if len(media.probes) != 0 {
		t.Error("probe ran for an invalid request")
	}
	requireEmpty(t, ws)
}

func TestTranscribe_StopsOnCancellation(t *testing.T) {
	ws := newWorkspace(t)
	media := newFakeMedia(300)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	upstream := &fakeProvider{
		texts:  []string{"one", "two", "three"},
		failOn: -1,
		hook: func(call int) {
			if call == 0 {
				cancel()
			}
		},
	}

	res, err := New(media, upstream, ws).Transcribe(ctx, request(45*mb))
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res != nil {
		t.Error("expected no result")
	}
	if len(upstream.calls) != 1 {
		t.Errorf("upstream calls = %d, want 1", len(upstream.calls))
	}
	requireEmpty(t, ws)
}

func TestTranscribe_SkipsResidualChunks(t *testing.T) {
	// 45 MB splits into three chunks; 0.15s of audio leaves each under the
	// minimum duration, so nothing is extracted.
	ws := newWorkspace(t)
	media := newFakeMedia(0.15)
	upstream := &fakeProvider{failOn: -1}

	res, err := New(media, upstream, ws).Transcribe(context.Background(), request(45*mb))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty", res.Text)
	}
	if len(media.extracts) != 0 || len(upstream.calls) != 0 {
		t.Errorf("extracts=%d calls=%d, want none", len(media.extracts), len(upstream.calls))
	}
}

func TestTranscribe_ConcurrentRequestsAreIsolated(t *testing.T) {
	ws := newWorkspace(t)
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			upstream := &fakeProvider{texts: []string{fmt.Sprintf("req-%d", i)}, failOn: -1}
			res, err := New(newFakeMedia(10), upstream, ws).Transcribe(context.Background(), request(2048))
			if err == nil && res.Text != fmt.Sprintf("req-%d", i) {
				err = fmt.Errorf("got %q", res.Text)
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d: %v", i, err)
		}
	}
	requireEmpty(t, ws)
}

func TestChunkError(t *testing.T) {
	cause := errors.InvalidMedia("bad frame")
	err := &ChunkError{Index: 2, Step: StepExtract, Err: cause}
	if got := err.Error(); got != "chunk 2: extract: "+cause.Error() {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestName(t *testing.T) {
	tr := New(newFakeMedia(1), &fakeProvider{}, newWorkspace(t))
	if tr.Name() != ProviderName {
		t.Errorf("Name() = %q", tr.Name())
	}
}
