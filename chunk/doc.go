// Package chunk computes how a large audio payload is split into
// time-bounded pieces that each fit under the transcription API's size
// ceiling, and joins the per-piece transcripts back together.
//
// Everything here is pure: no I/O, no clocks.
package chunk
