package loudness

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dynapress/dynapress/internal/errdefs"
)

// Analyzer measures a file's loudness with a single ffmpeg volumedetect
// pass. It is stateless; one value can be shared across workers.
type Analyzer struct{}

// Analyze runs volumedetect against path and returns the validated stats.
// The filter writes its readings to stderr, which is spooled to a scratch
// log next to the input and removed on every exit path. The tool reports
// no minimum volume, so [FloorDb] is substituted.
func (Analyzer) Analyze(ctx context.Context, path string) (Stats, error) {
	scratch, err := os.CreateTemp(filepath.Dir(path), scratchPattern(path))
	if err != nil {
		return Stats{}, &errdefs.AnalysisError{Path: path, Err: err}
	}
	defer func() {
		scratch.Close()
		os.Remove(scratch.Name())
	}()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-nostdin",
		"-i", path,
		"-vn",
		"-af", "volumedetect",
		"-f", "null", "-",
	)
	cmd.Stdout = nil
	cmd.Stderr = scratch

	if err := cmd.Run(); err != nil {
		return Stats{}, &errdefs.AnalysisError{Path: path, Err: err}
	}

	out, err := os.ReadFile(scratch.Name())
	if err != nil {
		return Stats{}, &errdefs.AnalysisError{Path: path, Err: err}
	}

	meanDb, maxDb, err := ParseVolumeDetect(out)
	if err != nil {
		return Stats{}, &errdefs.AnalysisError{Path: path, Err: err}
	}

	stats, err := New(meanDb, maxDb, FloorDb)
	if err != nil {
		return Stats{}, &errdefs.AnalysisError{Path: path, Err: err}
	}
	return stats, nil
}

// scratchPattern names the stderr scratch log for an input. The input's
// extension is stripped so a log orphaned by a hard crash never matches an
// extension-based include token on the next run.
func scratchPattern(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".voldetect-*"
}

// Pre-compiled patterns for the two volumedetect readings. The decimal
// separator may be '.' or ',' depending on the tool build's locale.
var (
	reMeanVolume = regexp.MustCompile(`mean_volume:\s*([-+]?\d+(?:[.,]\d+)?)\s*dB`)
	reMaxVolume  = regexp.MustCompile(`max_volume:\s*([-+]?\d+(?:[.,]\d+)?)\s*dB`)
)

// ParseVolumeDetect extracts the mean and max volume readings from raw
// volumedetect output. Exported for testing without a real ffmpeg binary.
func ParseVolumeDetect(output []byte) (meanDb, maxDb float64, err error) {
	meanDb, err = extractReading(reMeanVolume, output, "mean_volume")
	if err != nil {
		return 0, 0, err
	}
	maxDb, err = extractReading(reMaxVolume, output, "max_volume")
	if err != nil {
		return 0, 0, err
	}
	return meanDb, maxDb, nil
}

func extractReading(re *regexp.Regexp, output []byte, name string) (float64, error) {
	m := re.FindSubmatch(output)
	if m == nil {
		return 0, fmt.Errorf("no %s reading in volumedetect output", name)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(string(m[1]), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s reading %q: %w", name, m[1], err)
	}
	return v, nil
}
