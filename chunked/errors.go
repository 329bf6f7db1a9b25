package chunked

import "fmt"

// Step names the per-chunk stage that failed.
type Step string

const (
	StepExtract    Step = "extract"
	StepVerify     Step = "verify"
	StepRead       Step = "read"
	StepTranscribe Step = "transcribe"
)

// ChunkError reports which chunk failed and where. Err is the underlying
// *errors.AppError (or context error) and is reachable through Unwrap.
type ChunkError struct {
	Index int
	Step  Step
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %s: %v", e.Index, e.Step, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }
