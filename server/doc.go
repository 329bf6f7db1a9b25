// Package server exposes the transcription router over HTTP using Gin, with
// h2c so HTTP/2 clients can stream large uploads without TLS.
//
// # Middleware
//
// Built-in middleware (server/middleware), applied outside Gin so it also
// covers requests Gin never routes:
//
//   - Recovery: panic recovery with a JSON INTERNAL_ERROR body
//   - RequestID: X-Request-ID generation and propagation into the logger
//   - RequestLogger: request/response logging with duration and bytes
//   - BodySizeLimit: rejects uploads over the configured limit with 413
//
// # Endpoints
//
//   - POST /v1/transcriptions: multipart "file" field or a raw audio body
//   - GET /health: aggregated component health, 503 when any is down
//   - GET /info: service name, version and upload limits
package server
