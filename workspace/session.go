package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/logger"
)

// Session is one request's scratch directory. Its methods are not safe for
// concurrent use except Close.
type Session struct {
	id  string
	dir string
	log *logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// FileInfo describes a file in the session directory.
type FileInfo struct {
	Name string
	Size int64
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Dir returns the absolute session directory.
func (s *Session) Dir() string { return s.dir }

// Path returns the absolute path of name inside the session. name must be a
// plain file name.
func (s *Session) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", errors.InvalidInput("name", fmt.Sprintf("%q is not a plain file name", name))
	}
	return filepath.Join(s.dir, name), nil
}

// WriteFile stores data under name and returns its path.
func (s *Session) WriteFile(name string, data []byte) (string, error) {
	p, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return "", errors.Internal(fmt.Errorf("workspace: write %s: %w", name, err)).WithDetail(logger.FieldPath, p)
	}
	return p, nil
}

// ReadFile returns the content of name.
func (s *Session) ReadFile(name string) ([]byte, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("session file", name).WithCause(err)
		}
		return nil, errors.Internal(fmt.Errorf("workspace: read %s: %w", name, err))
	}
	return data, nil
}

// Size returns the size of name in bytes.
func (s *Session) Size(name string) (int64, error) {
	p, err := s.Path(name)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NotFound("session file", name).WithCause(err)
		}
		return 0, errors.Internal(fmt.Errorf("workspace: stat %s: %w", name, err))
	}
	return info.Size(), nil
}

// Remove deletes name. A missing file is not an error.
func (s *Session) Remove(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("workspace: remove %s: %w", name, err)
	}
	return nil
}

// Files lists regular files in the session, sorted by name.
func (s *Session) Files() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("workspace: list session: %w", err)
	}
	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Close removes the session directory and everything in it. Failures are
// logged and returned; repeated calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if err := os.RemoveAll(s.dir); err != nil {
			s.closeErr = fmt.Errorf("workspace: remove session directory: %w", err)
			s.log.Warn("failed to remove session directory", logger.ErrorFields("cleanup", err))
			return
		}
		s.log.Debug("session closed")
	})
	return s.closeErr
}
