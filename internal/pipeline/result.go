package pipeline

import (
	"time"

	"github.com/dynapress/dynapress/internal/loudness"
)

// Status tags an outcome as succeeded or failed.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Outcome is the immutable record of one file's pipeline result. It is
// created exactly once, after the file's analyze → decide → compress
// sequence completes or fails.
type Outcome struct {
	SourcePath string
	FileName   string
	Status     Status

	// Loudness is nil only when analysis itself failed. A compression
	// failure keeps the stats already measured.
	Loudness *loudness.Stats

	// CompressedPath is set only when compression ran and succeeded.
	CompressedPath string

	// ErrorMessage is set only when Status is StatusFailed.
	ErrorMessage string

	// Byte accounting for the batch summary. OutputBytes is zero when no
	// output file was produced.
	InputBytes  int64
	OutputBytes int64

	Timestamp time.Time
}

// BatchResult aggregates one coordinator run. Outcomes are in completion
// order, which carries no relation to the input order because processing
// is parallel.
type BatchResult struct {
	BatchID  string
	Outcomes []Outcome

	SuccessCount int
	FailureCount int

	// MetadataPath is set only when at least one file succeeded and the
	// document write succeeded.
	MetadataPath string

	// PersistErr carries a metadata write failure. The batch itself still
	// counts as completed; per-file outcomes are unaffected.
	PersistErr error
}

// CompressedCount returns how many outcomes produced a compressed output.
func (r *BatchResult) CompressedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.CompressedPath != "" {
			n++
		}
	}
	return n
}

// SpaceDelta returns input bytes minus output bytes across all compressed
// files. Positive means the outputs are smaller overall.
func (r *BatchResult) SpaceDelta() int64 {
	var in, out int64
	for _, o := range r.Outcomes {
		if o.CompressedPath != "" {
			in += o.InputBytes
			out += o.OutputBytes
		}
	}
	return in - out
}
