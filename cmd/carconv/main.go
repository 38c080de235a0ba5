// Command carconv is the CLI entrypoint for the car-player media
// converter and reconciler.
//
// It parses flags, validates configuration and paths, and runs exactly one
// phase per invocation: convert (default), reconcile, status, watch, or
// tool diagnostics (--check). Convert and reconcile are never interleaved
// within one process so a deletion can never race an unfinished copy.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/carmedia/carconv/internal/check"
	"github.com/carmedia/carconv/internal/config"
	"github.com/carmedia/carconv/internal/display"
	"github.com/carmedia/carconv/internal/logging"
	"github.com/carmedia/carconv/internal/pipeline"
	"github.com/carmedia/carconv/internal/watch"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output goes
	// through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "carconv: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "carconv: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "carconv: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Resolve and validate paths: source must exist, target is created if
	// needed, and neither directory may contain the other.
	sourceAbs, err := absPath(cfg.SourceDir)
	if err != nil {
		log.Error("Source not found: %s", cfg.SourceDir)
		return 1
	}
	if err := os.MkdirAll(cfg.TargetDir, 0o755); err != nil {
		log.Error("Cannot create target directory: %s", cfg.TargetDir)
		return 1
	}
	targetAbs, err := absPath(cfg.TargetDir)
	if err != nil {
		log.Error("Cannot resolve target path: %s", cfg.TargetDir)
		return 1
	}
	if err := cfg.ValidatePaths(sourceAbs, targetAbs); err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("=== carconv v%s (%s) ===", version, commit)
	log.Info("Source: %s", cfg.SourceDir)
	log.Info("Target: %s", cfg.TargetDir)
	log.Info("Mode:   %s", cfg.Mode)
	log.Info("")

	// Status is read-only and needs no external tools.
	if cfg.Mode == config.ModeStatus {
		if _, err := pipeline.RunStatus(&cfg, log); err != nil {
			log.Error("%v", err)
			return 1
		}
		return 0
	}

	// Fail fast if ffmpeg/ffprobe or the required encoders are missing.
	if cfg.Mode != config.ModeReconcile {
		if err := check.CheckDeps(&cfg); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	// Signal handling: cancel the context on SIGINT/SIGTERM so phases can
	// stop between files without leaving partial output behind.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	switch cfg.Mode {
	case config.ModeReconcile:
		summary, err := pipeline.RunReconcile(ctx, &cfg, log)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		if summary.Failed > 0 {
			return 1
		}
		return 0

	case config.ModeWatch:
		runner := pipeline.NewRunner(&cfg, log)
		w, err := watch.New(&cfg, log, runner)
		if err != nil {
			log.Error("Cannot start watcher: %v", err)
			return 1
		}
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("%v", err)
			return 1
		}
		return 0

	default: // ModeConvert
		runner := pipeline.NewRunner(&cfg, log)
		summary, err := runner.Run(ctx)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		logSpaceReport(log, &cfg, &summary)
		if summary.Failed > 0 {
			return 1
		}
		return 0
	}
}

// logSpaceReport prints the byte totals for a completed convert phase.
func logSpaceReport(log *logging.Logger, cfg *config.Config, s *pipeline.Summary) {
	if cfg.DryRun || s.Processed == 0 {
		return
	}
	saved := s.SpaceSaved()
	if saved >= 0 {
		log.Success("Space saved so far: %s (source %s -> target %s)",
			display.FormatBytes(saved),
			display.FormatBytes(s.TotalSourceBytes),
			display.FormatBytes(s.TotalTargetBytes))
	} else {
		log.Warn("Converted set is larger by %s", display.FormatBytes(-saved))
	}
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of the source and target hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
