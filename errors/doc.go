// Package errors provides the unified error type used across chunkscribe.
// Every failure surfaced by the transcription pipeline is an *AppError with a
// machine-readable code, an HTTP status mapping and a retryable hint.
package errors
