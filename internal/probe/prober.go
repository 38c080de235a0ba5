package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Probe runs a single ffprobe JSON call against path and returns the parsed
// descriptor. One structured call replaces the three per-attribute ffprobe
// invocations made by the legacy scripts.
func Probe(ctx context.Context, path string) (*Descriptor, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-print_format", "json",
		"-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, &Error{Path: path, Cause: fmt.Errorf("ffprobe: %w", err)}
	}

	return ParseJSON(path, out)
}

// ParseJSON converts raw ffprobe JSON output into a Descriptor.
// Exported for testing without a real ffprobe binary.
func ParseJSON(path string, data []byte) (*Descriptor, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Path: path, Cause: fmt.Errorf("parse ffprobe JSON: %w", err)}
	}

	var vs *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType == "video" && s.Disposition["attached_pic"] != 1 {
			vs = s
			break
		}
	}
	if vs == nil {
		return nil, &Error{Path: path, Cause: errNoVideoStream}
	}
	if vs.Width <= 0 || vs.Height <= 0 {
		return nil, &Error{Path: path, Cause: fmt.Errorf("invalid resolution %dx%d", vs.Width, vs.Height)}
	}

	fps, err := parseFrameRate(vs.RFrameRate)
	if err != nil {
		return nil, &Error{Path: path, Cause: err}
	}

	return &Descriptor{
		Path:      path,
		Codec:     vs.CodecName,
		Width:     vs.Width,
		Height:    vs.Height,
		FrameRate: fps,
	}, nil
}

// parseFrameRate converts ffprobe's rational frame rate ("num/den") to a
// decimal rounded to 2 places. Plain decimals are accepted as well.
func parseFrameRate(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("missing frame rate")
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid frame rate %q", raw)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("invalid frame rate %q", raw)
		}
		return round2(n / d), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q", raw)
	}
	return round2(f), nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index       int            `json:"index"`
	CodecName   string         `json:"codec_name"`
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	RFrameRate  string         `json:"r_frame_rate"`
	Disposition map[string]int `json:"disposition"`
}
