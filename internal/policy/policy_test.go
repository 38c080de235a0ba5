package policy

import (
	"testing"

	"github.com/carmedia/carconv/internal/config"
	"github.com/carmedia/carconv/internal/probe"
)

func defaultProfile() Profile {
	cfg := config.DefaultConfig()
	return ProfileFromConfig(&cfg)
}

func TestClassify(t *testing.T) {
	p := defaultProfile()

	tests := []struct {
		name string
		d    probe.Descriptor
		want Verdict
	}{
		{
			"fully compatible",
			probe.Descriptor{Codec: "h264", Width: 1920, Height: 1080, FrameRate: 25},
			Compatible,
		},
		{
			"smaller resolution is fine",
			probe.Descriptor{Codec: "h264", Width: 1280, Height: 720, FrameRate: 24},
			Compatible,
		},
		{
			"fps at band edges",
			probe.Descriptor{Codec: "h264", Width: 1920, Height: 1080, FrameRate: 30},
			Compatible,
		},
		{
			"wrong codec",
			probe.Descriptor{Codec: "hevc", Width: 1920, Height: 1080, FrameRate: 25},
			NeedsConversion,
		},
		{
			"too wide",
			probe.Descriptor{Codec: "h264", Width: 3840, Height: 1080, FrameRate: 25},
			NeedsConversion,
		},
		{
			"too tall",
			probe.Descriptor{Codec: "h264", Width: 1920, Height: 2160, FrameRate: 25},
			NeedsConversion,
		},
		{
			"fps too low",
			probe.Descriptor{Codec: "h264", Width: 1920, Height: 1080, FrameRate: 23.98},
			NeedsConversion,
		},
		{
			"fps too high",
			probe.Descriptor{Codec: "h264", Width: 1920, Height: 1080, FrameRate: 60},
			NeedsConversion,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Classify(&tt.d)
			if got != tt.want {
				t.Errorf("Classify(%s %dx%d %.2f) = %v, want %v",
					tt.d.Codec, tt.d.Width, tt.d.Height, tt.d.FrameRate, got, tt.want)
			}
		})
	}
}

func TestProfileFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxWidth = 1280
	cfg.MaxHeight = 720
	p := ProfileFromConfig(&cfg)

	d := probe.Descriptor{Codec: "h264", Width: 1920, Height: 1080, FrameRate: 25}
	if p.Classify(&d) != NeedsConversion {
		t.Error("tightened profile should reject 1080p")
	}
}

func TestVerdictString(t *testing.T) {
	if Compatible.String() != "compatible" {
		t.Errorf("Compatible.String() = %q", Compatible.String())
	}
	if NeedsConversion.String() != "needs-conversion" {
		t.Errorf("NeedsConversion.String() = %q", NeedsConversion.String())
	}
}
