// Package transcode builds and executes the ffmpeg conversion command for
// the fixed car-player profile: H.264 high/4.0 CRF 23, scale-and-pad to
// 1920x1080, 25 fps, AAC 128k.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/carmedia/carconv/internal/config"
)

// stderrTailLines bounds how much ffmpeg output an Error carries.
const stderrTailLines = 20

// Error is the transcode failure type. It carries the tail of ffmpeg's
// stderr so the batch log shows why a file failed without replaying the run.
type Error struct {
	SourcePath string
	Stderr     string
	Cause      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transcode %s: %v", e.SourcePath, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Convert runs ffmpeg to produce targetPath from sourcePath. On failure any
// partial output at targetPath is removed — ffmpeg does not clean up after
// itself, and a half-written file must never be mistaken for a valid
// conversion by a later run.
//
// When verbose is enabled stderr is tee'd through in real time; otherwise
// it is captured silently for error reporting.
func Convert(ctx context.Context, cfg *config.Config, sourcePath, targetPath string) error {
	args := BuildArgs(cfg, sourcePath, targetPath)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		os.Remove(targetPath)
		return &Error{
			SourcePath: sourcePath,
			Stderr:     tail(stderrBuf.String(), stderrTailLines),
			Cause:      err,
		}
	}
	return nil
}

// tail returns the last n lines of s, trimmed.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
