package transcription

import "context"

// Provider turns audio into text.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// Transcribe returns the transcript for req.Audio.
	Transcribe(ctx context.Context, req Request) (*Result, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc struct {
	ProviderName string
	Fn           func(ctx context.Context, req Request) (*Result, error)
}

// Name returns ProviderName.
func (p ProviderFunc) Name() string { return p.ProviderName }

// Transcribe calls Fn.
func (p ProviderFunc) Transcribe(ctx context.Context, req Request) (*Result, error) {
	return p.Fn(ctx, req)
}
