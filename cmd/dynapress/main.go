// Command dynapress is the entrypoint for the batch dynamic-range
// compressor CLI. It parses flags, validates config, and either runs the
// system check (--check) or processes a directory of audio files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/dynapress/dynapress/internal/check"
	"github.com/dynapress/dynapress/internal/compress"
	"github.com/dynapress/dynapress/internal/config"
	"github.com/dynapress/dynapress/internal/display"
	"github.com/dynapress/dynapress/internal/logging"
	"github.com/dynapress/dynapress/internal/loudness"
	"github.com/dynapress/dynapress/internal/metadata"
	"github.com/dynapress/dynapress/internal/pipeline"
)

// version and commit are set at build time via -ldflags (e.g. Makefile).
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

// CLI defines the command-line interface.
type CLI struct {
	Version     bool     `short:"v" help:"Show version information"`
	Check       bool     `help:"Verify ffmpeg and the required filters, then exit"`
	Concurrency int      `short:"j" default:"4" env:"DYNAPRESS_CONCURRENCY" help:"Worker pool size"`
	Tokens      []string `env:"DYNAPRESS_TOKENS" help:"Name tokens a file must contain to be selected (default: common audio extensions)"`
	DryRun      bool     `help:"Analyze and decide, but never compress"`
	Verbose     bool     `help:"Enable debug logging"`
	LogFile     string   `env:"DYNAPRESS_LOG_FILE" help:"Append log output to this file"`
	Color       string   `enum:"auto,always,never" default:"auto" help:"ANSI color mode"`
	Root        string   `arg:"" optional:"" help:"Directory of audio files to process"`
}

func main() {
	// A project .env may supply the DYNAPRESS_* variables kong reads below.
	_ = godotenv.Load()

	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("dynapress"),
		kong.Description("Batch loudness analyzer and dynamic-range compressor"),
		kong.UsageOnError(),
	)

	if cliArgs.Version {
		fmt.Printf("dynapress %s (%s)\n", version, commit)
		os.Exit(0)
	}

	cfg := config.DefaultConfig()
	cfg.RootDir = config.NormalizeDirArg(cliArgs.Root)
	cfg.Concurrency = cliArgs.Concurrency
	if len(cliArgs.Tokens) > 0 {
		cfg.IncludeTokens = cliArgs.Tokens
	}
	cfg.DryRun = cliArgs.DryRun
	cfg.CheckOnly = cliArgs.Check
	cfg.Verbose = cliArgs.Verbose
	cfg.LogFile = cliArgs.LogFile
	cfg.ColorMode = config.ColorMode(cliArgs.Color)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "dynapress: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dynapress: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	display.PrintBanner(logging.ColorsEnabled(cfg.ColorMode))

	if cfg.CheckOnly {
		check.RunCheck(log)
		os.Exit(0)
	}

	log.Info("=== dynapress v%s ===", version)
	log.Info("Root: %s", cfg.RootDir)
	if cfg.DryRun {
		log.Warn("DRY RUN")
	}

	// Fail fast when ffmpeg or a required filter is unusable.
	if err := check.CheckDeps(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coordinator := pipeline.NewCoordinator(
		loudness.Analyzer{},
		compress.Executor{},
		metadata.Store{},
		log,
		cfg.IncludeTokens,
		cfg.DryRun,
	)

	result, err := coordinator.Run(ctx, cfg.RootDir, cfg.Concurrency)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	// Per-file failures and a failed metadata write do not change the exit
	// code: the batch itself completed.
	if result.FailureCount > 0 {
		log.Warn("%d file(s) failed; see log above", result.FailureCount)
	}
	os.Exit(0)
}
