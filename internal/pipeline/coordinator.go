package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dynapress/dynapress/internal/display"
	"github.com/dynapress/dynapress/internal/errdefs"
	"github.com/dynapress/dynapress/internal/loudness"
	"github.com/dynapress/dynapress/internal/metadata"
)

// Analyzer measures one file's loudness.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (loudness.Stats, error)
}

// Compressor re-encodes one file with the compressor threshold set to
// thresholdDb and returns the output path.
type Compressor interface {
	Compress(ctx context.Context, path string, thresholdDb float64) (string, error)
}

// Store persists the success-data mapping of one batch.
type Store interface {
	Persist(rootDir string, entries map[string]metadata.Entry) (string, error)
}

// Logger is the minimal logging interface needed by the coordinator.
// Defined here so the package is testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Coordinator fans selected files out across a bounded worker pool and runs
// the analyze → decide → compress sequence per file. A failure in one
// file's pipeline never affects another's; the batch always completes once
// all workers finish.
type Coordinator struct {
	analyzer   Analyzer
	compressor Compressor
	store      Store
	log        Logger

	includeTokens []string
	dryRun        bool
}

// NewCoordinator wires the coordinator's collaborators. tokens is the name
// inclusion pattern for file selection. With dryRun set, compression is
// decided but never executed and no metadata is written.
func NewCoordinator(analyzer Analyzer, compressor Compressor, store Store, log Logger, tokens []string, dryRun bool) *Coordinator {
	return &Coordinator{
		analyzer:      analyzer,
		compressor:    compressor,
		store:         store,
		log:           log,
		includeTokens: tokens,
		dryRun:        dryRun,
	}
}

// Run processes every eligible file under rootDir with at most limit
// workers and returns the aggregated result. An empty selection returns a
// zero-count result, not an error. Batch-level failures (bad root, invalid
// limit) return an error; per-file failures are recorded in the outcomes.
func (c *Coordinator) Run(ctx context.Context, rootDir string, limit int) (BatchResult, error) {
	if limit <= 0 {
		return BatchResult{}, &errdefs.ValidationError{
			Field:  "concurrency",
			Reason: fmt.Sprintf("%d is not a positive worker count", limit),
		}
	}

	files, err := Select(rootDir, c.includeTokens)
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{BatchID: uuid.New().String()}
	if len(files) == 0 {
		c.log.Warn("No eligible files in %s", rootDir)
		return result, nil
	}

	c.log.Info("Batch %s: %d files, %d workers", result.BatchID, len(files), limit)

	jobs := make(chan string)
	outcomes := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				outcomes <- c.processFile(ctx, path)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Single collector: outcomes land in completion order, which is the
	// only ordering the result guarantees.
	for o := range outcomes {
		result.Outcomes = append(result.Outcomes, o)
		if o.Status == StatusSuccess {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}

	c.persist(rootDir, &result)
	c.logSummary(&result)
	return result, nil
}

// processFile runs one file's pipeline to completion or failure. Analysis
// failure stops the file before compression; compression failure keeps the
// stats already measured.
func (c *Coordinator) processFile(ctx context.Context, path string) Outcome {
	name := filepath.Base(path)

	stats, err := c.analyzer.Analyze(ctx, path)
	if err != nil {
		c.log.Error("%s: %v", name, err)
		return Outcome{
			SourcePath:   path,
			FileName:     name,
			Status:       StatusFailed,
			ErrorMessage: err.Error(),
			Timestamp:    time.Now(),
		}
	}

	c.log.Debug("%s: mean %.1f dB, max %.1f dB, threshold %.1f dB",
		name, stats.MeanVolumeDb, stats.MaxVolumeDb, stats.AdjustedThresholdDb)

	o := Outcome{
		SourcePath: path,
		FileName:   name,
		Status:     StatusSuccess,
		Loudness:   &stats,
	}

	switch {
	case !stats.RequiresCompression:
		c.log.Info("%s: within range, no compression needed", name)

	case c.dryRun:
		c.log.Success("[DRY] Would compress %s at %.1f dB", name, stats.AdjustedThresholdDb)

	default:
		outPath, err := c.compressor.Compress(ctx, path, stats.AdjustedThresholdDb)
		if err != nil {
			c.log.Error("%s: %v", name, err)
			o.Status = StatusFailed
			o.ErrorMessage = err.Error()
			break
		}
		o.CompressedPath = outPath
		if fi, err := os.Stat(path); err == nil {
			o.InputBytes = fi.Size()
		}
		if fi, err := os.Stat(outPath); err == nil {
			o.OutputBytes = fi.Size()
		}
		c.log.Success("%s -> %s", name, filepath.Base(outPath))
	}

	o.Timestamp = time.Now()
	return o
}

// persist hands the success data to the store. A write failure is reported
// on the batch, not on the per-file outcomes: all per-file work already
// completed.
func (c *Coordinator) persist(rootDir string, result *BatchResult) {
	if result.SuccessCount == 0 || c.dryRun {
		return
	}

	entries := make(map[string]metadata.Entry, result.SuccessCount)
	for _, o := range result.Outcomes {
		if o.Status != StatusSuccess || o.Loudness == nil {
			continue
		}
		entries[o.FileName] = metadata.Entry{
			MeanVolumeDb:        o.Loudness.MeanVolumeDb,
			MaxVolumeDb:         o.Loudness.MaxVolumeDb,
			MinVolumeDb:         o.Loudness.MinVolumeDb,
			AdjustedThresholdDb: o.Loudness.AdjustedThresholdDb,
			RequiresCompression: o.Loudness.RequiresCompression,
			CompressedPath:      o.CompressedPath,
			ProcessedAt:         o.Timestamp,
		}
	}

	path, err := c.store.Persist(rootDir, entries)
	if err != nil {
		result.PersistErr = err
		c.log.Error("Metadata not written: %v", err)
		return
	}
	result.MetadataPath = path
}

func (c *Coordinator) logSummary(result *BatchResult) {
	c.log.Info("==============================")
	c.log.Info("Done: %d succeeded, %d failed, %d compressed",
		result.SuccessCount, result.FailureCount, result.CompressedCount())
	if result.CompressedCount() > 0 {
		c.log.Info("  Output size delta: %s", display.FormatBytesWithSign(-result.SpaceDelta()))
	}
	if result.MetadataPath != "" {
		c.log.Info("Metadata: %s", result.MetadataPath)
	}
}
