// Package check provides tool diagnostics (--check mode) and pre-pipeline
// dependency validation for ffmpeg, ffprobe, libx264, and AAC.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/carmedia/carconv/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is
// missing. These are fatal startup errors: they fire before any file is
// touched.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrX264Unavailable = errors.New("libx264 test encode failed (ffmpeg built without x264?)")
	ErrAACUnavailable  = errors.New("AAC test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck. Defined here
// (rather than importing the logging package) so that check remains
// dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of
// ffmpeg, ffprobe, the H.264 encoder, and the AAC encoder. Informational
// only — it reports everything rather than stopping on the first failure.
// Returns false if any required piece is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Tool Check ===")
	ok := true

	ok = checkTool(log, "ffmpeg") && ok
	ok = checkTool(log, "ffprobe") && ok

	log.Info("Testing %s…", cfg.VideoEncoder)
	if runSilent("ffmpeg", x264TestArgs(cfg)...) {
		log.Success("%s works", cfg.VideoEncoder)
	} else {
		log.Error("%s test encode failed", cfg.VideoEncoder)
		ok = false
	}

	log.Info("Testing AAC encoder…")
	if runSilent("ffmpeg", aacTestArgs()...) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
		ok = false
	}
	return ok
}

// checkTool verifies a binary is on PATH and logs its version line.
func checkTool(log Logger, name string) bool {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return false
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
	return true
}

// CheckDeps is the pre-pipeline validation: ffmpeg and ffprobe must be on
// PATH, and both encoders of the fixed profile must pass a short test
// encode. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	if !runSilent("ffmpeg", x264TestArgs(cfg)...) {
		return ErrX264Unavailable
	}
	if !runSilent("ffmpeg", aacTestArgs()...) {
		return ErrAACUnavailable
	}
	return nil
}

// x264TestArgs encodes a single synthetic frame with the configured video
// encoder, discarding the output.
func x264TestArgs(cfg *config.Config) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "color=c=black:s=64x64:d=0.1",
		"-c:v", cfg.VideoEncoder, "-frames:v", "1",
		"-f", "null", "-",
	}
}

// aacTestArgs encodes a tenth of a second of a sine tone, discarding the
// output.
func aacTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	}
}

// runSilent runs a command discarding all output; reports success.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	return cmd.Run() == nil
}
