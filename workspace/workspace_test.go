package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/chunkscribe/errors"
)

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := New(Config{BasePath: filepath.Join(t.TempDir(), "scratch")})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return ws
}

func TestNew_CreatesBase(t *testing.T) {
	ws := newWorkspace(t)
	if info, err := os.Stat(ws.BasePath()); err != nil || !info.IsDir() {
		t.Fatalf("base directory not created: %v", err)
	}
	if !filepath.IsAbs(ws.BasePath()) {
		t.Errorf("base path must be absolute, got %s", ws.BasePath())
	}
}

func TestConfig_DefaultBasePath(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.BasePath != filepath.Join(os.TempDir(), DefaultDirName) {
		t.Errorf("BasePath = %s", cfg.BasePath)
	}
}

func TestSession_Lifecycle(t *testing.T) {
	ws := newWorkspace(t)
	sess, err := ws.NewSession()
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if filepath.Dir(sess.Dir()) != ws.BasePath() || filepath.Base(sess.Dir()) != sess.ID() {
		t.Fatalf("session dir %s is not <base>/<id>", sess.Dir())
	}

	p, err := sess.WriteFile("input_audio.mp3", []byte("ID3"))
	if err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if filepath.Dir(p) != sess.Dir() {
		t.Errorf("file written outside the session: %s", p)
	}
	if _, err := sess.WriteFile("chunk_0.mp3", []byte("abcd")); err != nil {
		t.Fatal(err)
	}

	size, err := sess.Size("chunk_0.mp3")
	if err != nil || size != 4 {
		t.Errorf("Size() = %d, %v", size, err)
	}
	data, err := sess.ReadFile("input_audio.mp3")
	if err != nil || string(data) != "ID3" {
		t.Errorf("ReadFile() = %q, %v", data, err)
	}

	files, err := sess.Files()
	if err != nil || len(files) != 2 || files[0].Name != "chunk_0.mp3" {
		t.Errorf("Files() = %v, %v", files, err)
	}

	if err := sess.Remove("chunk_0.mp3"); err != nil {
		t.Errorf("Remove() error: %v", err)
	}
	if err := sess.Remove("chunk_0.mp3"); err != nil {
		t.Errorf("removing a missing file must succeed: %v", err)
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := os.Stat(sess.Dir()); !os.IsNotExist(err) {
		t.Errorf("session directory still exists: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Errorf("second Close() must be a no-op, got %v", err)
	}
}

func TestSession_RejectsPathEscape(t *testing.T) {
	sess, err := newWorkspace(t).NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	for _, name := range []string{"", "..", "../x.mp3", "sub/x.mp3", "/etc/passwd"} {
		if _, err := sess.WriteFile(name, []byte("x")); err == nil {
			t.Errorf("WriteFile(%q) must fail", name)
		}
	}
}

func TestSession_MissingFile(t *testing.T) {
	sess, err := newWorkspace(t).NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	_, err = sess.ReadFile("chunk_9.mp3")
	if appErr, ok := errors.AsAppError(err); !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if _, err := sess.Size("chunk_9.mp3"); err == nil {
		t.Error("Size of a missing file must fail")
	}
}

func TestOpen_Validation(t *testing.T) {
	ws := newWorkspace(t)
	if _, err := ws.Open("../../escape"); err == nil {
		t.Error("non-uuid ids must be rejected")
	}

	id := uuid.NewString()
	sess, err := ws.Open(id)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer sess.Close()
	if _, err := ws.Open(id); err == nil {
		t.Error("opening an existing session must fail")
	}
}

func TestSessions_AreIsolated(t *testing.T) {
	ws := newWorkspace(t)
	const n = 8
	var wg sync.WaitGroup
	dirs := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := ws.NewSession()
			if err != nil {
				errs[i] = err
				return
			}
			defer sess.Close()
			dirs[i] = sess.Dir()
			_, errs[i] = sess.WriteFile("input_audio.mp3", []byte{byte(i)})
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("session %d: %v", i, errs[i])
		}
		if seen[dirs[i]] {
			t.Fatalf("directory %s shared between sessions", dirs[i])
		}
		seen[dirs[i]] = true
	}
	entries, _ := os.ReadDir(ws.BasePath())
	if len(entries) != 0 {
		t.Errorf("expected every session to be cleaned up, found %d entries", len(entries))
	}
}
