package ffmpeg

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/process"
)

const durationToken = "Duration:"

// Probe returns the duration of the recording at path in seconds.
//
// ffmpeg is asked to decode one second to a null sink; its exit status is
// ignored because the stream header is printed regardless. Only the header
// matters.
func (t *Tool) Probe(ctx context.Context, path string) (float64, error) {
	if !t.exists() {
		return 0, errors.ToolNotFound(toolName, t.path)
	}
	if _, err := os.Stat(path); err != nil {
		return 0, errors.NotFound("audio file", path).WithCause(err)
	}
	if err := t.checkVersion(ctx); err != nil {
		return 0, err
	}

	res, err := t.run(ctx, "-i", path, "-t", "1", "-f", "null", nullSink())
	if err != nil && !process.Exited(err) {
		return 0, t.runError(ctx, err)
	}

	stderr := string(res.Stderr)
	seconds, ok := ParseDuration(stderr)
	if !ok {
		return 0, errors.ParseFailure("duration", stderr, res.ExitCode)
	}

	t.log.Debug("probed duration", logger.Fields(logger.FieldPath, path, "seconds", seconds))
	return seconds, nil
}

// ParseDuration extracts the "Duration: HH:MM:SS.ss," value from ffmpeg's
// diagnostic output. Only the first line carrying the token is considered;
// without a trailing comma the value runs to the end of the line.
func ParseDuration(text string) (float64, bool) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		_, after, found := strings.Cut(sc.Text(), durationToken)
		if !found {
			continue
		}
		value, _, _ := strings.Cut(after, ",")
		return parseClock(strings.TrimSpace(value))
	}
	return 0, false
}

func parseClock(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	var fields [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		fields[i] = v
	}
	return fields[0]*3600 + fields[1]*60 + fields[2], true
}
