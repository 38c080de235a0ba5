// Package pipeline orchestrates the three phases over a source/target
// directory pair: the convert phase (probe → classify → copy or
// transcode), the reconcile phase (match converted outputs to originals
// and delete the originals), and the status audit. Every phase snapshots
// directory listings up front and survives individual file failures.
package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/carmedia/carconv/internal/config"
	"github.com/carmedia/carconv/internal/logging"
	"github.com/carmedia/carconv/internal/naming"
	"github.com/carmedia/carconv/internal/policy"
	"github.com/carmedia/carconv/internal/probe"
	"github.com/carmedia/carconv/internal/transcode"
)

// Files below this size cannot be real media; they are rejected before
// probing (typically truncated downloads or placeholder files).
const minFileSize = 1000

// Runner drives the convert phase. It owns the pieces shared between the
// batch loop and watch mode: the active profile, the collision resolver,
// and the transcode throttle.
type Runner struct {
	cfg      *config.Config
	log      *logging.Logger
	profile  policy.Profile
	resolver *naming.CollisionResolver
	sem      *Semaphore
}

// NewRunner builds a Runner from validated configuration.
func NewRunner(cfg *config.Config, log *logging.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		log:      log,
		profile:  policy.ProfileFromConfig(cfg),
		resolver: naming.NewCollisionResolver(),
		sem:      NewSemaphore(cfg.TranscodeJobs),
	}
}

// Run is the batch convert entry point: snapshot the source directory,
// process each file sequentially, and return the aggregate summary. A
// failed file never aborts the batch; cancellation is honored between
// files. Running twice over unchanged directories is safe and cheap — the
// second pass skips every file.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	files, err := DiscoverSources(r.cfg.SourceDir)
	if err != nil {
		return summary, err
	}

	if r.cfg.MaxFiles > 0 && len(files) > r.cfg.MaxFiles {
		r.log.Info("Limiting run to %d of %d files", r.cfg.MaxFiles, len(files))
		files = files[:r.cfg.MaxFiles]
	}

	r.log.Info("Found %d files in %s", len(files), r.cfg.SourceDir)
	if r.cfg.DryRun {
		r.log.Warn("DRY RUN — no files will be written")
	}

	for i, path := range files {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			break
		}

		r.log.Info("[%d/%d] %s", i+1, len(files), filepath.Base(path))
		outcome := r.ProcessFile(ctx, path)
		summary.Add(outcome)
		r.accumulateBytes(&summary, outcome)
	}

	r.logSummary(&summary)
	return summary, nil
}

// ProcessFile handles one source file: validate → skip-existing check →
// probe → classify → copy or transcode. Exported so watch mode can feed
// individual files through the identical path.
func (r *Runner) ProcessFile(ctx context.Context, path string) Outcome {
	fi, err := os.Stat(path)
	if err != nil {
		r.log.Error("File not found: %s", path)
		return Outcome{SourcePath: path, Status: Failed, Err: err}
	}
	if fi.Size() < minFileSize {
		r.log.Error("File too small (possibly corrupt): %s", path)
		return Outcome{SourcePath: path, Status: Failed, Err: errTooSmall}
	}

	targetPath := filepath.Join(r.cfg.TargetDir, naming.TargetName(filepath.Base(path)))
	targetPath = r.resolver.Resolve(path, targetPath)

	// Skip-existing check with self-healing: a target that probes
	// compatible is done; anything else there (stale profile, partial
	// write from an interrupted run) is removed and redone.
	if _, err := os.Stat(targetPath); err == nil {
		d, perr := probe.Probe(ctx, targetPath)
		if perr == nil && r.profile.Classify(d) == policy.Compatible {
			r.log.Debug("Skip (existing output is compatible): %s", filepath.Base(targetPath))
			return Outcome{SourcePath: path, TargetPath: targetPath, Status: SkippedExisting}
		}
		r.log.Warn("Existing output is stale or invalid, reconverting: %s", filepath.Base(targetPath))
		if !r.cfg.DryRun {
			os.Remove(targetPath)
		}
	}

	// Probe the source. A probe failure is not fatal: an unreadable
	// header says nothing about what ffmpeg can decode, so the file is
	// simply treated as needing conversion.
	verdict := policy.NeedsConversion
	if d, perr := probe.Probe(ctx, path); perr != nil {
		r.log.Warn("Probe failed, treating as needs-conversion: %v", perr)
	} else {
		verdict = r.profile.Classify(d)
		r.log.Debug("  %s | %s | %.2f fps -> %s", d.Codec, d.Resolution(), d.FrameRate, verdict)
	}

	if verdict == policy.Compatible {
		return r.copyFile(path, targetPath)
	}
	return r.convertFile(ctx, path, targetPath)
}

// copyFile reuses a compatible source verbatim under the derived name.
func (r *Runner) copyFile(path, targetPath string) Outcome {
	if r.cfg.DryRun {
		r.log.Success("[DRY] Would copy: %s", filepath.Base(targetPath))
		return Outcome{SourcePath: path, TargetPath: targetPath, Status: Copied}
	}

	if err := copyContents(path, targetPath); err != nil {
		r.log.Error("Copy failed: %v", err)
		os.Remove(targetPath)
		return Outcome{SourcePath: path, TargetPath: targetPath, Status: Failed, Err: err}
	}
	r.log.Success("Copied (already compatible): %s", filepath.Base(targetPath))
	return Outcome{SourcePath: path, TargetPath: targetPath, Status: Copied}
}

// convertFile runs the transcoder under the concurrency throttle.
func (r *Runner) convertFile(ctx context.Context, path, targetPath string) Outcome {
	if r.cfg.DryRun {
		r.log.Success("[DRY] Would transcode: %s", filepath.Base(targetPath))
		return Outcome{SourcePath: path, TargetPath: targetPath, Status: Converted}
	}

	if err := r.sem.Acquire(ctx); err != nil {
		return Outcome{SourcePath: path, TargetPath: targetPath, Status: Failed, Err: err}
	}
	defer r.sem.Release()

	start := time.Now()
	if err := transcode.Convert(ctx, r.cfg, path, targetPath); err != nil {
		var terr *transcode.Error
		if errors.As(err, &terr) && terr.Stderr != "" {
			r.log.Error("Transcode failed: %v", terr.Cause)
			r.log.Error("Last ffmpeg output:\n%s", terr.Stderr)
		} else {
			r.log.Error("Transcode failed: %v", err)
		}
		return Outcome{SourcePath: path, TargetPath: targetPath, Status: Failed, Err: err}
	}

	r.verifyOutput(ctx, targetPath)
	r.log.Success("Transcoded in %ds: %s", int(time.Since(start).Seconds()), filepath.Base(targetPath))
	return Outcome{SourcePath: path, TargetPath: targetPath, Status: Converted}
}

// verifyOutput re-probes a fresh conversion and warns when it still fails
// the profile. Informational only — the encoder ran with the fixed profile
// arguments, so a mismatch points at a config or encoder problem, not at
// this one file.
func (r *Runner) verifyOutput(ctx context.Context, targetPath string) {
	d, err := probe.Probe(ctx, targetPath)
	if err != nil {
		r.log.Warn("Could not verify output %s: %v", filepath.Base(targetPath), err)
		return
	}
	if r.profile.Classify(d) != policy.Compatible {
		r.log.Warn("Output does not meet the target profile: %s (%s %s %.2f fps)",
			filepath.Base(targetPath), d.Codec, d.Resolution(), d.FrameRate)
	}
}

func (r *Runner) accumulateBytes(s *Summary, o Outcome) {
	if o.Status == Failed || r.cfg.DryRun {
		return
	}
	if fi, err := os.Stat(o.SourcePath); err == nil {
		s.TotalSourceBytes += fi.Size()
	}
	if o.TargetPath != "" {
		if fi, err := os.Stat(o.TargetPath); err == nil {
			s.TotalTargetBytes += fi.Size()
		}
	}
}

func (r *Runner) logSummary(s *Summary) {
	r.log.Info("==============================")
	r.log.Info("Done: %d converted, %d copied, %d skipped, %d failed",
		s.Converted, s.Copied, s.SkippedExisting, s.Failed)
	if s.Failed > 0 {
		r.log.Warn("Failed sources were left untouched; fix and re-run")
	}
}

var errTooSmall = errors.New("file smaller than minimum media size")

// copyContents copies src to dst, preserving the source's modtime so the
// copy is indistinguishable from the original for library tools.
func copyContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if fi, err := os.Stat(src); err == nil {
		os.Chtimes(dst, fi.ModTime(), fi.ModTime())
	}
	return nil
}
