package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/source", "/media/source"},
		{"single trailing slash", "/media/source/", "/media/source"},
		{"multiple trailing slashes", "/media/source///", "/media/source"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_Mode(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		wantErr bool
	}{
		{"convert is valid", ModeConvert, false},
		{"reconcile is valid", ModeReconcile, false},
		{"status is valid", ModeStatus, false},
		{"watch is valid", ModeWatch, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "prune", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip path requirement
			cfg.Mode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		cm      ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "sometimes", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			cfg.ColorMode = tt.cm
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.MaxWidth = 0 }},
		{"negative height", func(c *Config) { c.MaxHeight = -1 }},
		{"inverted fps band", func(c *Config) { c.MinFrameRate = 30; c.MaxFrameRate = 24 }},
		{"zero min fps", func(c *Config) { c.MinFrameRate = 0 }},
		{"threshold zero", func(c *Config) { c.MatchThreshold = 0 }},
		{"threshold above 100", func(c *Config) { c.MatchThreshold = 101 }},
		{"zero delete attempts", func(c *Config) { c.DeleteAttempts = 0 }},
		{"negative delete delay", func(c *Config) { c.DeleteDelay = -time.Second }},
		{"zero transcode jobs", func(c *Config) { c.TranscodeJobs = 0 }},
		{"negative max files", func(c *Config) { c.MaxFiles = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should have failed")
			}
		})
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when paths are empty and CheckOnly is false")
	}

	cfg.SourceDir = "/in"
	cfg.TargetDir = "/out"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_CheckOnlySkipsPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should pass with empty paths when CheckOnly is true, got: %v", err)
	}
}

func TestNormalizeAudioBitrate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"128", "128k", false},
		{"128k", "128k", false},
		{"128K", "128k", false},
		{"192kbps", "192k", false},
		{" 96k ", "96k", false},
		{"", "", true},
		{"fast", "", true},
		{"0", "", true},
		{"-64k", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeAudioBitrate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeAudioBitrate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("normalizeAudioBitrate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		target  string
		wantErr bool
	}{
		{"separate directories", "/media/in", "/media/out", false},
		{"target equals source", "/media/lib", "/media/lib", true},
		{"target inside source", "/media/lib", "/media/lib/converted", true},
		{"source inside target", "/media/lib/raw", "/media/lib", true},
		{"similar prefix not nested", "/media/library", "/media/library2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ValidatePaths(tt.source, tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.source, tt.target, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeConvert {
		t.Errorf("default Mode = %q, want %q", cfg.Mode, ModeConvert)
	}
	if cfg.TargetCodec != "h264" {
		t.Errorf("default TargetCodec = %q, want h264", cfg.TargetCodec)
	}
	if cfg.MaxWidth != 1920 || cfg.MaxHeight != 1080 {
		t.Errorf("default bounds = %dx%d, want 1920x1080", cfg.MaxWidth, cfg.MaxHeight)
	}
	if cfg.MinFrameRate != 24 || cfg.MaxFrameRate != 30 {
		t.Errorf("default fps band = %v-%v, want 24-30", cfg.MinFrameRate, cfg.MaxFrameRate)
	}
	if cfg.CRF != 23 {
		t.Errorf("default CRF = %d, want 23", cfg.CRF)
	}
	if cfg.OutputFrameRate != 25 {
		t.Errorf("default OutputFrameRate = %d, want 25", cfg.OutputFrameRate)
	}
	if cfg.MatchThreshold != 50 {
		t.Errorf("default MatchThreshold = %v, want 50", cfg.MatchThreshold)
	}
	if cfg.DeleteAttempts != 5 || cfg.DeleteDelay != time.Second {
		t.Errorf("default backoff = %d/%v, want 5/1s", cfg.DeleteAttempts, cfg.DeleteDelay)
	}
	if cfg.TranscodeJobs != 1 {
		t.Errorf("default TranscodeJobs = %d, want 1", cfg.TranscodeJobs)
	}
	if cfg.DryRun {
		t.Error("default DryRun should be false")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carconv.yaml")
	doc := `
profile:
  max_width: 1280
  max_height: 720
transcode:
  crf: 20
  preset: slow
  jobs: 2
reconcile:
  match_threshold: 60
delete:
  attempts: 3
  delay: 500ms
watch:
  settle_delay: 5s
logging:
  verbose: true
  color: never
paths:
  source: /media/in/
  target: /media/out
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.MaxWidth != 1280 || cfg.MaxHeight != 720 {
		t.Errorf("bounds = %dx%d, want 1280x720", cfg.MaxWidth, cfg.MaxHeight)
	}
	if cfg.CRF != 20 || cfg.EncoderPreset != "slow" || cfg.TranscodeJobs != 2 {
		t.Errorf("transcode settings not applied: crf=%d preset=%q jobs=%d",
			cfg.CRF, cfg.EncoderPreset, cfg.TranscodeJobs)
	}
	if cfg.MatchThreshold != 60 {
		t.Errorf("MatchThreshold = %v, want 60", cfg.MatchThreshold)
	}
	if cfg.DeleteAttempts != 3 || cfg.DeleteDelay != 500*time.Millisecond {
		t.Errorf("backoff = %d/%v, want 3/500ms", cfg.DeleteAttempts, cfg.DeleteDelay)
	}
	if cfg.SettleDelay != 5*time.Second {
		t.Errorf("SettleDelay = %v, want 5s", cfg.SettleDelay)
	}
	if !cfg.Verbose || cfg.ColorMode != ColorNever {
		t.Errorf("logging settings not applied: verbose=%v color=%q", cfg.Verbose, cfg.ColorMode)
	}
	if cfg.SourceDir != "/media/in" || cfg.TargetDir != "/media/out" {
		t.Errorf("paths = %q, %q; want /media/in, /media/out", cfg.SourceDir, cfg.TargetDir)
	}

	// Untouched fields keep their defaults.
	if cfg.TargetCodec != "h264" || cfg.AudioBitrate != "128k" {
		t.Errorf("defaults clobbered: codec=%q audio=%q", cfg.TargetCodec, cfg.AudioBitrate)
	}
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("transcode:\n  cfr: 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := LoadFile(path, &cfg); err == nil {
		t.Error("LoadFile should reject unknown keys")
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Error("LoadFile should fail on a missing file")
	}
}
