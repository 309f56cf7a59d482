// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation for ffmpeg and the filters the pipeline relies on.
package check

import (
	"errors"
	"os/exec"
	"strings"
)

// Sentinel errors returned by CheckDeps when a required tool or filter is missing.
var (
	ErrFfmpegNotFound          = errors.New("ffmpeg not found on PATH")
	ErrVolumedetectUnavailable = errors.New("ffmpeg volumedetect filter test failed")
	ErrAcompressorUnavailable  = errors.New("ffmpeg acompressor filter test failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg
// and the two filters the pipeline needs. Informational only; it does not
// stop on failure.
func RunCheck(log Logger) {
	log.Info("=== System Check ===")

	checkFfmpeg(log)

	log.Info("Testing volumedetect...")
	if runSilent("ffmpeg", filterTestArgs("volumedetect")...) {
		log.Success("volumedetect works")
	} else {
		log.Error("volumedetect test failed")
	}

	log.Info("Testing acompressor...")
	if runSilent("ffmpeg", filterTestArgs("acompressor=threshold=0.1")...) {
		log.Success("acompressor works")
	} else {
		log.Error("acompressor test failed")
	}
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return
	}
	out, err := exec.Command("ffmpeg", "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
}

// CheckDeps is the pre-pipeline validation: ffmpeg must be on PATH and both
// filters must pass a short synthetic-tone test. Returns a sentinel error
// on the first failure so the batch can fail fast.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if !runSilent("ffmpeg", filterTestArgs("volumedetect")...) {
		return ErrVolumedetectUnavailable
	}
	if !runSilent("ffmpeg", filterTestArgs("acompressor=threshold=0.1")...) {
		return ErrAcompressorUnavailable
	}
	return nil
}

// filterTestArgs returns ffmpeg arguments that run filter against a tenth
// of a second of synthetic tone and discard the result.
func filterTestArgs(filter string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-af", filter,
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
