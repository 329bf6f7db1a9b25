// Package ffmpeg drives the ffmpeg executable for the two operations the
// chunked pipeline needs: reading a recording's duration from the header
// ffmpeg prints on stderr, and cutting a time range out of a recording
// without re-encoding.
//
// All invocations go through a process.Runner so that cancellation reaches
// the ffmpeg process group and tests can substitute a fake.
//
//	tool := ffmpeg.New(ffmpeg.Config{Path: "/usr/bin/ffmpeg"})
//	seconds, err := tool.Probe(ctx, "input.mp3")
//	err = tool.Extract(ctx, "input.mp3", "chunk_0.mp3", 0, 600)
package ffmpeg
