package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/validation"
)

// Workspace creates sessions under a base directory.
type Workspace struct {
	basePath string
	log      *logger.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(w *Workspace) { w.log = l }
}

// New resolves and creates the base directory.
func New(cfg Config, opts ...Option) (*Workspace, error) {
	cfg.ApplyDefaults()
	abs, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("workspace: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("workspace: create base directory: %w", err)
	}

	w := &Workspace{basePath: abs, log: logger.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.WithComponent("workspace")
	return w, nil
}

// BasePath returns the absolute base directory.
func (w *Workspace) BasePath() string { return w.basePath }

// NewSession opens a session under a fresh random id.
func (w *Workspace) NewSession() (*Session, error) {
	return w.Open(uuid.NewString())
}

// Open creates the directory for id, which must be a UUID. Opening an id
// whose directory already exists fails so two requests can never share one.
func (w *Workspace) Open(id string) (*Session, error) {
	parsed, err := validation.ValidateUUID("session_id", id)
	if err != nil {
		return nil, err
	}
	id = parsed.String()

	dir := filepath.Join(w.basePath, id)
	if err := os.Mkdir(dir, 0o750); err != nil {
		return nil, errors.Internal(fmt.Errorf("workspace: create session directory: %w", err)).
			WithDetail(logger.FieldPath, dir)
	}

	w.log.Debug("session opened", logger.Fields("session", id, logger.FieldPath, dir))
	return &Session{id: id, dir: dir, log: w.log.WithFields(logger.Fields("session", id))}, nil
}
