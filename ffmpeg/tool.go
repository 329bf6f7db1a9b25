package ffmpeg

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/process"
)

const toolName = "ffmpeg"

// Tool runs ffmpeg. It is safe for concurrent use; it holds no per-call state.
type Tool struct {
	path   string
	runner process.Runner
	log    *logger.Logger
}

// Option configures a Tool.
type Option func(*Tool)

// WithRunner replaces the process runner.
func WithRunner(r process.Runner) Option {
	return func(t *Tool) { t.runner = r }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(t *Tool) { t.log = l }
}

// New creates a Tool. Defaults are applied to cfg.
func New(cfg Config, opts ...Option) *Tool {
	cfg.ApplyDefaults()
	t := &Tool{
		path: cfg.Path,
		runner: process.NewAdapter(process.Config{
			GracePeriod: cfg.GracePeriod,
			Timeout:     cfg.Timeout,
		}),
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.WithComponent("ffmpeg")
	return t
}

// Path returns the configured executable location.
func (t *Tool) Path() string { return t.path }

// Check verifies the executable exists and answers -version.
func (t *Tool) Check(ctx context.Context) error {
	if !t.exists() {
		return errors.ToolNotFound(toolName, t.path)
	}
	return t.checkVersion(ctx)
}

func (t *Tool) checkVersion(ctx context.Context) error {
	res, err := t.run(ctx, "-version")
	if err != nil {
		return t.runError(ctx, err)
	}
	if first, _, _ := strings.Cut(string(res.Stdout), "\n"); first != "" {
		t.log.Debug("ffmpeg available", logger.Fields("version", first))
	}
	return nil
}

func (t *Tool) exists() bool {
	if strings.ContainsRune(t.path, '/') || strings.ContainsRune(t.path, os.PathSeparator) {
		info, err := os.Stat(t.path)
		return err == nil && !info.IsDir()
	}
	_, err := exec.LookPath(t.path)
	return err == nil
}

// runError classifies a command that never produced an exit status. A
// deadline set by the caller is returned as is; the per-invocation timeout
// becomes TIMEOUT.
func (t *Tool) runError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.ToolTimeout(toolName, t.path, err)
	}
	return errors.ToolUnavailable(toolName, t.path, err)
}

func (t *Tool) run(ctx context.Context, args ...string) (*process.Result, error) {
	cmd := process.Command{Binary: t.path, Args: args}
	t.log.Debug("running", logger.Fields("cmd", cmd.String()))
	return t.runner.Run(ctx, cmd)
}

func nullSink() string {
	if runtime.GOOS == "windows" {
		return "NUL"
	}
	return "/dev/null"
}
