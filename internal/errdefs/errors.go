// Package errdefs defines the error taxonomy shared across the pipeline.
//
// Validation and not-found errors are fatal to the whole batch; analysis and
// compression errors are scoped to a single file and converted into failed
// outcomes by the coordinator; persistence errors are batch-level but do not
// retroactively fail per-file work.
package errdefs

import "fmt"

// ValidationError reports bad input to any contract (out-of-range volume,
// non-positive concurrency limit). Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing or non-directory root path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("directory not found: %s", e.Path)
}

// AnalysisError reports a failed loudness measurement for one file.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze %s: %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// CompressionError reports a failed transcoder invocation for one file.
// ExitStatus is -1 when the process could not be started at all.
type CompressionError struct {
	Path       string
	ExitStatus int
	Err        error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("compress %s (exit %d): %v", e.Path, e.ExitStatus, e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }

// PersistenceError reports a failed metadata document write.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
