package transcode

import (
	"fmt"
	"strconv"

	"github.com/carmedia/carconv/internal/config"
)

// BuildArgs constructs the complete ffmpeg argument slice for one
// conversion. Arguments are assembled as a structured list and handed to
// the process API directly; nothing is ever interpolated into a shell
// string, so filenames with quotes, spaces, or metacharacters are safe.
func BuildArgs(cfg *config.Config, sourcePath, targetPath string) []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")
	if cfg.Verbose {
		args = append(args, "-loglevel", "info", "-stats")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Input ---
	args = append(args, "-i", sourcePath)

	// --- Video: H.264 at the fixed car-player profile ---
	args = append(args,
		"-c:v", cfg.VideoEncoder,
		"-profile:v", cfg.EncoderProfile,
		"-level:v", cfg.EncoderLevel,
		"-preset", cfg.EncoderPreset,
		"-crf", strconv.Itoa(cfg.CRF),
	)

	// Scale down to fit the frame, then pad to exactly WxH so the output
	// resolution is constant regardless of source aspect ratio.
	args = append(args, "-vf", scalePadFilter(cfg.MaxWidth, cfg.MaxHeight))

	// --- Output frame rate ---
	args = append(args, "-r", strconv.Itoa(cfg.OutputFrameRate))

	// --- Audio ---
	args = append(args,
		"-c:a", cfg.AudioEncoder,
		"-b:a", cfg.AudioBitrate,
	)

	// --- Output ---
	args = append(args, targetPath)

	return args
}

// scalePadFilter returns the ffmpeg filter chain that letterboxes or
// pillarboxes the source into a w x h frame while preserving aspect ratio.
func scalePadFilter(w, h int) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		w, h, w, h,
	)
}
