// Package chunked transcribes payloads that exceed the remote size ceiling.
//
// The payload is written into a private workspace session, probed for its
// duration, and cut into time ranges sized by chunk.NewPlan. Each range is
// extracted with a stream copy and sent to the upstream provider, strictly
// one after another. Transcripts are joined in index order.
//
// Any failure aborts the request. No partial transcript is returned and the
// session directory is removed either way.
package chunked
