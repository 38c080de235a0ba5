// Package config holds runtime configuration: defaults, the YAML config
// file, CLI flag parsing, and validation. Defaults match the legacy batch
// scripts so existing video libraries keep converting the same way.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// --- Enum types for validated string fields ---

// Mode selects which phase of the pipeline an invocation runs.
type Mode string

const (
	ModeConvert   Mode = "convert"   // Probe, copy or transcode each source file (default).
	ModeReconcile Mode = "reconcile" // Match converted outputs to originals and delete them.
	ModeStatus    Mode = "status"    // Report conversion progress; no writes.
	ModeWatch     Mode = "watch"     // Convert new files as they appear in the source dir.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by a YAML file ([LoadFile]), and finally mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args).
	SourceDir string
	TargetDir string

	Mode Mode

	// Target playback profile. A file meeting all four bounds is reused
	// verbatim instead of being re-encoded.
	TargetCodec  string  // Fixed: "h264".
	MaxWidth     int     // Default: 1920.
	MaxHeight    int     // Default: 1080.
	MinFrameRate float64 // Default: 24 (tolerance band around the 25 fps target).
	MaxFrameRate float64 // Default: 30.

	// Transcoder parameters.
	VideoEncoder    string // Fixed: "libx264".
	EncoderProfile  string // Fixed: "high".
	EncoderLevel    string // Fixed: "4.0".
	EncoderPreset   string // Default: "medium".
	CRF             int    // Default: 23.
	OutputFrameRate int    // Fixed: 25.
	AudioEncoder    string // Fixed: "aac".
	AudioBitrate    string // Default: "128k".

	// Reconciliation.
	MatchThreshold float64 // Default: 50. Partial matches below this score are rejected.

	// Deletion backoff.
	DeleteAttempts int           // Default: 5.
	DeleteDelay    time.Duration // Default: 1s between attempts.

	// Behavior.
	DryRun        bool
	MaxFiles      int           // Default: 0 (no limit). Cap on files handled per run.
	TranscodeJobs int           // Default: 1. Concurrent ffmpeg invocations.
	SettleDelay   time.Duration // Default: 2s. Watch mode wait before touching a new file.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.

	// Path of the YAML config file, empty when none is used.
	ConfigFile string
}

// DefaultConfig returns a Config with all defaults matching the legacy
// conversion scripts. Used as the base before [LoadFile] and [ParseFlags]
// apply overrides.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeConvert,
		TargetCodec:     "h264",
		MaxWidth:        1920,
		MaxHeight:       1080,
		MinFrameRate:    24,
		MaxFrameRate:    30,
		VideoEncoder:    "libx264",
		EncoderProfile:  "high",
		EncoderLevel:    "4.0",
		EncoderPreset:   "medium",
		CRF:             23,
		OutputFrameRate: 25,
		AudioEncoder:    "aac",
		AudioBitrate:    "128k",
		MatchThreshold:  50,
		DeleteAttempts:  5,
		DeleteDelay:     time.Second,
		TranscodeJobs:   1,
		SettleDelay:     2 * time.Second,
		ColorMode:       ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges. When not in CheckOnly
// mode, it also requires that both directory paths are set. Errors here are
// fatal startup errors: nothing has touched the filesystem yet.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeConvert, ModeReconcile, ModeStatus, ModeWatch:
		// valid
	default:
		return fmt.Errorf("invalid mode %q", c.Mode)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		return errors.New("profile resolution bounds must be positive")
	}
	if c.MinFrameRate <= 0 || c.MaxFrameRate < c.MinFrameRate {
		return errors.New("invalid frame rate band (need 0 < min <= max)")
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 100 {
		return errors.New("match threshold must be in (0, 100]")
	}
	if c.DeleteAttempts < 1 {
		return errors.New("delete attempts must be at least 1")
	}
	if c.DeleteDelay < 0 {
		return errors.New("delete delay must not be negative")
	}
	if c.TranscodeJobs < 1 {
		return errors.New("transcode jobs must be at least 1")
	}
	if c.MaxFiles < 0 {
		return errors.New("max files must not be negative")
	}

	normalized, err := normalizeAudioBitrate(c.AudioBitrate)
	if err != nil {
		return err
	}
	c.AudioBitrate = normalized

	if c.CheckOnly {
		return nil
	}
	if c.SourceDir == "" || c.TargetDir == "" {
		return errors.New("need exactly source_dir and target_dir")
	}
	return nil
}

// normalizeAudioBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "128", "128k", "128K", "128kbps". Output is "<n>k".
func normalizeAudioBitrate(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("audio bitrate must not be empty")
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid audio bitrate %q (use positive Kbps value, e.g. 128k)", raw)
	}
	return fmt.Sprintf("%dk", n), nil
}

// ValidatePaths ensures the resolved directories are distinct and that
// neither is nested inside the other. Nesting would let the convert phase
// rediscover its own outputs, or the reconcile phase book a converted file
// as an "original". Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(sourceAbs, targetAbs string) error {
	sep := string(filepath.Separator)
	if sourceAbs == targetAbs {
		return errors.New("source and target directories must differ")
	}
	if strings.HasPrefix(targetAbs+sep, sourceAbs+sep) {
		return errors.New("target directory must not be inside source directory")
	}
	if strings.HasPrefix(sourceAbs+sep, targetAbs+sep) {
		return errors.New("source directory must not be inside target directory")
	}
	return nil
}
