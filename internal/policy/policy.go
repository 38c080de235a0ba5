// Package policy decides whether a probed media file already meets the
// target playback profile. Pure decision logic; no I/O.
package policy

import (
	"github.com/carmedia/carconv/internal/config"
	"github.com/carmedia/carconv/internal/probe"
)

// Verdict is the compatibility classification of one media file.
type Verdict int

const (
	// Compatible files are reused verbatim (copied, never re-encoded).
	Compatible Verdict = iota
	// NeedsConversion files go through the transcoder.
	NeedsConversion
)

func (v Verdict) String() string {
	if v == Compatible {
		return "compatible"
	}
	return "needs-conversion"
}

// Profile holds the playback bounds a file must satisfy to be reused as-is.
type Profile struct {
	Codec        string
	MaxWidth     int
	MaxHeight    int
	MinFrameRate float64
	MaxFrameRate float64
}

// ProfileFromConfig builds the active profile from runtime configuration.
func ProfileFromConfig(cfg *config.Config) Profile {
	return Profile{
		Codec:        cfg.TargetCodec,
		MaxWidth:     cfg.MaxWidth,
		MaxHeight:    cfg.MaxHeight,
		MinFrameRate: cfg.MinFrameRate,
		MaxFrameRate: cfg.MaxFrameRate,
	}
}

// Classify checks a descriptor against the profile. Any single violated
// bound means the file needs conversion. The frame rate check is a band,
// not an exact match, because encoders drift slightly around the nominal
// rate (23.98 vs 24, 29.97 vs 30).
func (p Profile) Classify(d *probe.Descriptor) Verdict {
	if d.Codec != p.Codec {
		return NeedsConversion
	}
	if d.Width > p.MaxWidth || d.Height > p.MaxHeight {
		return NeedsConversion
	}
	if d.FrameRate < p.MinFrameRate || d.FrameRate > p.MaxFrameRate {
		return NeedsConversion
	}
	return Compatible
}
