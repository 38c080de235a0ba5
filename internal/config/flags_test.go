package config

import (
	"flag"
	"testing"
)

func TestApplyMode(t *testing.T) {
	tests := []struct {
		name    string
		modes   modeFlags
		want    Mode
		wantErr bool
	}{
		{"default is convert", modeFlags{}, ModeConvert, false},
		{"reconcile", modeFlags{reconcile: true}, ModeReconcile, false},
		{"status", modeFlags{status: true}, ModeStatus, false},
		{"watch", modeFlags{watch: true}, ModeWatch, false},
		{"reconcile and status conflict", modeFlags{reconcile: true, status: true}, "", true},
		{"watch and reconcile conflict", modeFlags{watch: true, reconcile: true}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := applyMode(&cfg, &tt.modes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyMode error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Mode != tt.want {
				t.Errorf("Mode = %q, want %q", cfg.Mode, tt.want)
			}
		})
	}
}

func TestParsePositionalArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		checkOnly  bool
		wantSource string
		wantTarget string
		wantErr    bool
	}{
		{"two dirs", []string{"/in/", "/out"}, false, "/in", "/out", false},
		{"none defers to config file", nil, false, "", "", false},
		{"one arg is an error", []string{"/in"}, false, "", "", true},
		{"three args is an error", []string{"/a", "/b", "/c"}, false, "", "", true},
		{"check-only ignores args", []string{"/in"}, true, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			cfg := DefaultConfig()
			cfg.CheckOnly = tt.checkOnly

			err := parsePositionalArgs(fs, &cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePositionalArgs error = %v, wantErr %v", err, tt.wantErr)
			}
			if cfg.SourceDir != tt.wantSource || cfg.TargetDir != tt.wantTarget {
				t.Errorf("paths = %q, %q; want %q, %q",
					cfg.SourceDir, cfg.TargetDir, tt.wantSource, tt.wantTarget)
			}
		})
	}
}

func TestColorModeValue(t *testing.T) {
	var cm ColorMode = ColorAuto
	v := colorModeValue{&cm}

	if err := v.Set("never"); err != nil || cm != ColorNever {
		t.Errorf("Set(never): err=%v cm=%q", err, cm)
	}
	if err := v.Set("ALWAYS"); err != nil || cm != ColorAlways {
		t.Errorf("Set(ALWAYS): err=%v cm=%q", err, cm)
	}
	if err := v.Set("rainbow"); err == nil {
		t.Error("Set(rainbow) should fail")
	}
	if v.String() != string(ColorAlways) {
		t.Errorf("String() = %q, want %q", v.String(), ColorAlways)
	}
}
