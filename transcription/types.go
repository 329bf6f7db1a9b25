package transcription

import (
	"github.com/kbukum/chunkscribe/util"
	"github.com/kbukum/chunkscribe/validation"
)

// Request is one transcription call. It is never modified by providers.
type Request struct {
	// Audio is the encoded recording (MP3 in practice).
	Audio []byte `json:"audio" validate:"nonempty"`
	// APIKey is the caller's credential for the remote endpoint.
	APIKey string `json:"api_key" validate:"nonempty"`
	// Model overrides the configured model when set.
	Model string `json:"model,omitempty" validate:"omitempty,max=64"`
}

// Validate reports MISSING_FIELD for empty audio, then for an empty key.
func (r Request) Validate() error {
	return validation.Validate(r)
}

// String describes the request without exposing the key.
func (r Request) String() string {
	return "transcription.Request{audio=" + util.FormatBytes(int64(len(r.Audio))) +
		", api_key=" + util.MaskSecret(r.APIKey, 3) + ", model=" + r.Model + "}"
}

// Result is a completed transcript.
type Result struct {
	Text string `json:"text"`
}
