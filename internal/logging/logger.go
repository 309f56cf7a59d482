// Package logging provides the leveled, optionally colored logger used by
// the pipeline, with an optional append-mode file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dynapress/dynapress/internal/config"
)

// palette holds the ANSI sequences for each level. All fields are empty
// when colors are disabled, making concatenation a no-op.
type palette struct {
	red, green, yellow, blue, cyan, reset string
}

var colorPalette = palette{
	red:    "\033[1;91m",
	green:  "\033[1;92m",
	yellow: "\033[1;93m",
	blue:   "\033[1;94m",
	cyan:   "\033[1;96m",
	reset:  "\033[0m",
}

// Logger writes timestamped, leveled lines to stdout/stderr and optionally
// to a log file. Safe for concurrent use by the worker pool.
type Logger struct {
	mu      sync.Mutex
	colors  palette
	verbose bool
	file    *os.File
}

// NewLogger resolves the color mode from cfg and optionally opens
// cfg.LogFile in append mode. Call Close when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	l := &Logger{verbose: cfg.Verbose}
	if ColorsEnabled(cfg.ColorMode) {
		l.colors = colorPalette
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
	}
	return l, nil
}

// ColorsEnabled resolves the configured mode against TTY detection and the
// NO_COLOR env var (https://no-color.org).
func ColorsEnabled(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	plain := ts + " [" + level + "] " + text + "\n"

	out := os.Stdout
	if level == "ERROR" {
		out = os.Stderr
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+l.colors.reset+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, plain)
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", l.colors.blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", l.colors.green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", l.colors.yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), also to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", l.colors.red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when the logger is verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", l.colors.cyan, fmt.Sprintf(format, args...))
}
