package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/chunkscribe/chunked"
	"github.com/kbukum/chunkscribe/config"
	"github.com/kbukum/chunkscribe/ffmpeg"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/observability"
	"github.com/kbukum/chunkscribe/transcriber"
	"github.com/kbukum/chunkscribe/transcription"
	"github.com/kbukum/chunkscribe/transcription/openai"
	"github.com/kbukum/chunkscribe/util"
	"github.com/kbukum/chunkscribe/workspace"
)

// App holds the wired components. The component fields are set during
// startup and are nil before Run or RunTask is called.
type App struct {
	Name    string
	Version string
	Cfg     *config.Config
	Logger  *logger.Logger

	Telemetry   *observability.Telemetry
	Media       chunked.Media
	Workspace   *workspace.Workspace
	Direct      transcription.Provider
	Chunked     *chunked.Transcriber
	Transcriber *transcriber.Router

	gracefulTimeout time.Duration
	opts            *appOptions
	checkers        []observability.HealthChecker

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and initializes logging.
func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	app := &App{
		Name:            cfg.Name,
		Version:         util.Coalesce(cfg.Version, "dev"),
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		opts:            o,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// Run starts the application and blocks until a signal arrives or ctx is
// done, then shuts down.
func (a *App) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask starts the application, runs task, and shuts down. SIGINT and
// SIGTERM cancel the context passed to task.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context, app *App) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx, a)

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.initialize(ctx); err != nil {
		// Telemetry may already be running.
		_ = a.Telemetry.Shutdown(context.Background())
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		_ = a.stop()
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		_ = a.stop()
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.logSummary(time.Since(start))
	return nil
}

// initialize builds the components from the config.
func (a *App) initialize(ctx context.Context) error {
	cfg := a.Cfg

	tel, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
		Name:        a.Name,
		Version:     a.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.Telemetry = tel

	a.Media = a.opts.media
	if a.Media == nil {
		a.Media = ffmpeg.New(cfg.FFmpeg, ffmpeg.WithLogger(a.Logger))
	}

	ws, err := workspace.New(cfg.Workspace, workspace.WithLogger(a.Logger))
	if err != nil {
		return err
	}
	a.Workspace = ws

	a.Direct = a.opts.direct
	if a.Direct == nil {
		client, err := openai.New(cfg.Transcription.Config, openai.WithLogger(a.Logger))
		if err != nil {
			return fmt.Errorf("transcription client: %w", err)
		}
		a.Direct = client
	}

	a.Chunked = chunked.New(a.Media, a.Direct, ws,
		chunked.WithLogger(a.Logger), chunked.WithMetrics(tel.Metrics))
	a.Transcriber = transcriber.NewRouter(a.Direct, a.Chunked,
		transcriber.WithLogger(a.Logger), transcriber.WithMetrics(tel.Metrics))

	a.checkers = []observability.HealthChecker{
		observability.CheckerFunc{Name: "workspace", Fn: a.checkWorkspace},
	}
	if c, ok := a.Media.(interface{ Check(context.Context) error }); ok {
		a.checkers = append(a.checkers, observability.CheckerFunc{Name: "ffmpeg", Fn: c.Check})
	}
	return nil
}

func (a *App) checkWorkspace(context.Context) error {
	info, err := os.Stat(a.Workspace.BasePath())
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", a.Workspace.BasePath())
	}
	return nil
}

// HealthCheckers returns the checks backing ReadyCheck and /health.
func (a *App) HealthCheckers() []observability.HealthChecker {
	return a.checkers
}

// ReadyCheck reports every component that is not up.
func (a *App) ReadyCheck(ctx context.Context) error {
	sh := observability.Check(ctx, a.Name, a.Version, a.checkers...)
	var errs []error
	for _, h := range sh.Components {
		if h.Status != observability.HealthStatusUp {
			errs = append(errs, fmt.Errorf("%s=%s: %s", h.Name, h.Status, h.Message))
		}
	}
	return stderrors.Join(errs...)
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the application. Use when managing your own lifecycle.
func (a *App) Shutdown(context.Context) error {
	return a.stop()
}

func (a *App) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, reversed(a.onStop)); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	if err := a.Telemetry.Shutdown(ctx); err != nil {
		a.Logger.Error("Telemetry shutdown error", logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}

func (a *App) logSummary(startup time.Duration) {
	cfg := a.Cfg
	a.Logger.Info("Application started", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		"environment", cfg.Environment,
		"startup_ms", startup.Milliseconds(),
		"direct_provider", a.Direct.Name(),
		"model", cfg.Transcription.Model,
		"api_key", util.MaskSecret(cfg.Transcription.APIKey, 3),
		"ffmpeg", cfg.FFmpeg.Path,
		"workspace", a.Workspace.BasePath(),
		"tracing", cfg.Observability.TracingEnabled,
		"metrics", cfg.Observability.MetricsEnabled,
	))
}
