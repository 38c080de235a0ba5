// Package watch converts files as they land in the source directory.
// Each fsnotify CREATE event is given a settle delay (uploads and copies
// are not atomic), then fed through the same per-file path as the batch
// convert phase. Reconciliation never runs in watch mode: deleting
// originals while new files stream in would race the convert loop.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/carmedia/carconv/internal/config"
	"github.com/carmedia/carconv/internal/logging"
	"github.com/carmedia/carconv/internal/pipeline"
)

// Watcher monitors the source directory and drives the runner for each new
// media file. Concurrency is bounded by the runner's transcode semaphore;
// the watcher itself only fans out goroutines.
type Watcher struct {
	cfg    *config.Config
	log    *logging.Logger
	runner *pipeline.Runner
	fsw    *fsnotify.Watcher
	wg     sync.WaitGroup
}

// New creates a Watcher over cfg.SourceDir.
func New(cfg *config.Config, log *logging.Logger, runner *pipeline.Runner) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(cfg.SourceDir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{cfg: cfg, log: log, runner: runner, fsw: fsw}, nil
}

// Run processes the existing backlog once, then blocks handling events
// until ctx is cancelled. In-flight conversions are awaited before return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	// Files that predate the watch would otherwise never be picked up.
	w.log.Info("Processing existing files before watching…")
	if _, err := w.runner.Run(ctx); err != nil {
		return err
	}

	w.log.Info("Watching %s (settle delay %s)", w.cfg.SourceDir, w.cfg.SettleDelay)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Waiting for in-flight conversions…")
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !pipeline.IsMediaFile(event.Name) {
				w.log.Debug("Ignoring non-media file: %s", event.Name)
				continue
			}
			w.handle(ctx, event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.log.Error("Watcher error: %v", err)
		}
	}
}

// handle schedules one new file for conversion after the settle delay.
func (w *Watcher) handle(ctx context.Context, path string) {
	w.log.Info("New file detected: %s", path)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.cfg.SettleDelay):
		}

		outcome := w.runner.ProcessFile(ctx, path)
		if outcome.Status == pipeline.Failed {
			w.log.Error("Watch conversion failed: %v", outcome.Err)
		}
	}()
}
