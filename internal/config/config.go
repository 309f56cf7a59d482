// Package config holds runtime configuration: defaults, validation, and the
// enum types for validated string fields.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dynapress/dynapress/internal/errdefs"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultConcurrency is the worker pool size when none is configured.
const DefaultConcurrency = 4

// DefaultIncludeTokens selects inputs by name: a file is eligible when its
// name contains any of these tokens and does not carry the processed marker.
var DefaultIncludeTokens = []string{".mp3", ".wav", ".flac", ".m4a", ".ogg"}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by the CLI layer before being passed (by pointer) to packages
// that need it.
type Config struct {
	// RootDir is the directory whose eligible files are processed.
	RootDir string

	// Concurrency bounds the worker pool. Must be positive.
	Concurrency int

	// IncludeTokens is the case-sensitive name inclusion pattern.
	IncludeTokens []string

	// Behavior flags.
	DryRun    bool // Analyze and decide but never invoke the transcoder.
	CheckOnly bool // Run dependency diagnostics and exit.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before the CLI layer applies overrides.
func DefaultConfig() Config {
	return Config{
		Concurrency:   DefaultConcurrency,
		IncludeTokens: DefaultIncludeTokens,
		ColorMode:     ColorAuto,
	}
}

// Validate checks enum fields and the concurrency bound. When not in
// CheckOnly mode, the root directory must be set.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Concurrency <= 0 {
		return &errdefs.ValidationError{
			Field:  "concurrency",
			Reason: fmt.Sprintf("%d is not a positive worker count", c.Concurrency),
		}
	}

	if len(c.IncludeTokens) == 0 {
		c.IncludeTokens = DefaultIncludeTokens
	}
	for _, tok := range c.IncludeTokens {
		if strings.TrimSpace(tok) == "" {
			return &errdefs.ValidationError{
				Field:  "include tokens",
				Reason: "tokens must be non-empty",
			}
		}
	}

	if c.CheckOnly {
		return nil
	}
	if c.RootDir == "" {
		return errors.New("need a root directory to process")
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}
