package ffmpeg

import (
	"context"
	"fmt"

	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/process"
)

// Extract copies duration seconds of in, starting at start, into out without
// re-encoding. Timestamps in out are shifted to begin at zero. An existing out
// is overwritten.
func (t *Tool) Extract(ctx context.Context, in, out string, start, duration float64) error {
	if start < 0 {
		return errors.InvalidInput("start", fmt.Sprintf("start must not be negative, got %.3f", start))
	}
	if duration <= 0 {
		return errors.InvalidInput("duration", fmt.Sprintf("duration must be positive, got %.3f", duration))
	}

	res, err := t.run(ctx, ExtractArgs(in, out, start, duration)...)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || !process.Exited(err) {
		return t.runError(ctx, err)
	}

	t.log.Warn("extraction failed", logger.Fields(
		logger.FieldPath, out, "start", start, "duration", duration, "exit_code", res.ExitCode,
	))
	return errors.SubprocessFailed(toolName, res.ExitCode, string(res.Stderr), string(res.Stdout)).
		WithCause(err)
}

// ExtractArgs builds the stream-copy argument list used by Extract.
func ExtractArgs(in, out string, start, duration float64) []string {
	return []string{
		"-i", in,
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", duration),
		"-acodec", "copy",
		"-avoid_negative_ts", "make_zero",
		"-y", out,
	}
}
