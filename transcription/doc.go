// Package transcription defines the request and result types shared by every
// speech-to-text backend, and the Provider interface they implement.
//
// Backends:
//
//   - transcription/openai: the remote multipart transcription endpoint
//   - chunked: splits oversize payloads and drives another Provider per chunk
//   - transcriber: routes between the two by payload size
package transcription
