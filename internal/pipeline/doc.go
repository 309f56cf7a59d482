// Package pipeline orchestrates file selection, bounded-parallel per-file
// processing, and batch result aggregation.
//
// Select enumerates the eligible direct children of a root directory.
// Coordinator fans them out across a worker pool, runs each file's
// analyze, decide, compress sequence in isolation, and collects Outcomes
// into a BatchResult in completion order. Collaborators (analyzer,
// compressor, metadata store, logger) are injected as interfaces.
package pipeline
