package process

import (
	"errors"
	"os/exec"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process never started or was killed.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// Exited reports whether err came from a process that started and exited
// with a non-zero status, as opposed to one that could not be spawned.
func Exited(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
