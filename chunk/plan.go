package chunk

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MaxFileSize is the remote API's hard request ceiling (25 MB).
	MaxFileSize = 25 * 1024 * 1024

	// TargetChunkSizeMB leaves headroom under MaxFileSize for VBR drift.
	TargetChunkSizeMB = 20.0

	// MinDuration is the shortest chunk worth extracting; anything shorter is
	// floating-point residue at the tail of the plan.
	MinDuration = 0.1

	bytesPerMB = 1024.0 * 1024.0
)

// Plan describes how many chunks a payload is split into and how long each is.
type Plan struct {
	ChunkCount    int
	ChunkDuration float64
}

// Spec locates one chunk inside the source audio, in seconds.
type Spec struct {
	Index    int
	Start    float64
	Duration float64
}

// End returns the offset where the chunk stops.
func (s Spec) End() float64 { return s.Start + s.Duration }

func (s Spec) String() string {
	return fmt.Sprintf("chunk %d (start=%.2fs, duration=%.2fs)", s.Index, s.Start, s.Duration)
}

// SizeMB converts a byte count to mebibytes.
func SizeMB(sizeBytes int64) float64 {
	return float64(sizeBytes) / bytesPerMB
}

// NewPlan splits sizeBytes into ceil(sizeMB/TargetChunkSizeMB) chunks, never
// fewer than one, and divides totalDuration evenly among them.
func NewPlan(sizeBytes int64, totalDuration float64) Plan {
	count := int(math.Ceil(SizeMB(sizeBytes) / TargetChunkSizeMB))
	if count < 1 {
		count = 1
	}
	return Plan{
		ChunkCount:    count,
		ChunkDuration: totalDuration / float64(count),
	}
}

// Spec returns the chunk at index, clamped so it never runs past
// totalDuration. ok is false when the clamped duration is under MinDuration
// and the chunk should be skipped.
func (p Plan) Spec(index int, totalDuration float64) (spec Spec, ok bool) {
	start := float64(index) * p.ChunkDuration
	duration := p.ChunkDuration
	if start+duration > totalDuration {
		duration = totalDuration - start
	}
	spec = Spec{Index: index, Start: start, Duration: duration}
	return spec, duration >= MinDuration
}

// Specs returns every chunk that should be extracted, in index order.
func (p Plan) Specs(totalDuration float64) []Spec {
	specs := make([]Spec, 0, p.ChunkCount)
	for i := 0; i < p.ChunkCount; i++ {
		if s, ok := p.Spec(i, totalDuration); ok {
			specs = append(specs, s)
		}
	}
	return specs
}

// Join concatenates chunk transcripts in order with single spaces.
func Join(texts []string) string {
	return strings.Join(texts, " ")
}
