// Package compress applies dynamic-range compression to one file by
// invoking ffmpeg's acompressor filter.
package compress

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/dynapress/dynapress/internal/errdefs"
	"github.com/dynapress/dynapress/internal/loudness"
)

// Fixed compression curve. The threshold is the only per-call input; the
// shape of the curve is a constant of this policy.
const (
	ratio     = 4
	attackMs  = 20
	releaseMs = 250

	// Lowest linear threshold the filter accepts.
	minLinearThreshold = 0.000976563
)

// Executor invokes the transcoding tool for one file. It is stateless; one
// value can be shared across workers.
type Executor struct{}

// Compress re-encodes path with the compressor threshold set to thresholdDb
// and returns the deterministic output path. The threshold must lie in
// [loudness.FloorDb, 0]. Pre-existing output at the target path is
// overwritten so reruns converge on the same result.
func (Executor) Compress(ctx context.Context, path string, thresholdDb float64) (string, error) {
	if thresholdDb < loudness.FloorDb || thresholdDb > 0 {
		return "", &errdefs.ValidationError{
			Field:  "threshold",
			Reason: fmt.Sprintf("%.1f dB outside [%.1f, 0.0]", thresholdDb, loudness.FloorDb),
		}
	}

	outputPath := OutputPath(path)

	// acompressor rejects linear thresholds below its documented floor
	// (0.000976563, about -60.2 dB), so very quiet targets are clamped.
	linear := dbToLinear(thresholdDb)
	if linear < minLinearThreshold {
		linear = minLinearThreshold
	}

	filter := fmt.Sprintf("acompressor=threshold=%.6f:ratio=%d:attack=%d:release=%d",
		linear, ratio, attackMs, releaseMs)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-nostdin",
		"-y",
		"-i", path,
		"-vn",
		"-af", filter,
		outputPath,
	)

	// Success is determined by exit status alone; stderr is captured only
	// for the error message.
	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(outputPath)
		exit := -1
		if cmd.ProcessState != nil {
			exit = cmd.ProcessState.ExitCode()
		}
		if msg := lastLine(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", &errdefs.CompressionError{Path: path, ExitStatus: exit, Err: err}
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", &errdefs.CompressionError{Path: path, ExitStatus: 0, Err: err}
	}
	return outputPath, nil
}

// dbToLinear converts a decibel value to the linear amplitude the
// acompressor filter expects.
func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// lastLine returns the final non-empty line of tool output.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
