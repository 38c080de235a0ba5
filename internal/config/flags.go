package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into mode, conversion, reconciliation, display, and
// utility. Precedence is defaults < config file < flags: the command line is
// parsed once to learn --config, the file is applied, and the command line
// is parsed again so explicit flags overwrite file values.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// args, unreadable config file).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("carconv", flag.ContinueOnError)
	fs.Usage = func() { printUsage(version) }

	var modes modeFlags
	defineFlags(fs, cfg, &modes)

	args := os.Args[1:]
	if err := fs.Parse(args); err != nil {
		return err
	}

	if modes.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if modes.showVersion {
		fmt.Fprintln(os.Stdout, "carconv v"+version)
		os.Exit(0)
	}

	if cfg.ConfigFile != "" {
		if err := LoadFile(cfg.ConfigFile, cfg); err != nil {
			return err
		}
		// Second parse: explicit flags win over file values.
		if err := fs.Parse(args); err != nil {
			return err
		}
	}

	if err := applyMode(cfg, &modes); err != nil {
		return err
	}
	return parsePositionalArgs(fs, cfg)
}

// modeFlags holds the mutually exclusive mode selectors plus help/version,
// applied after Parse so Config defaults hold unless set.
type modeFlags struct {
	reconcile   bool
	status      bool
	watch       bool
	showVersion bool
	showHelp    bool
}

func defineFlags(fs *flag.FlagSet, cfg *Config, m *modeFlags) {
	// Mode selection.
	fs.BoolVar(&m.reconcile, "reconcile", false, "Match converted files to originals and delete the originals")
	fs.BoolVar(&m.status, "status", false, "Report conversion progress and exit")
	fs.BoolVar(&m.watch, "watch", false, "Convert new files as they appear in the source directory")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run tool diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")

	// Conversion behavior.
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not transcode, copy or delete")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.IntVar(&cfg.MaxFiles, "max", cfg.MaxFiles, "Process at most N files (0 = all)")
	fs.IntVar(&cfg.TranscodeJobs, "transcode-jobs", cfg.TranscodeJobs, "Concurrent ffmpeg invocations")
	fs.IntVar(&cfg.CRF, "crf", cfg.CRF, "x264 constant rate factor")
	fs.StringVar(&cfg.EncoderPreset, "preset", cfg.EncoderPreset, "x264 preset (e.g. medium, slow)")
	fs.StringVar(&cfg.AudioBitrate, "audio-bitrate", cfg.AudioBitrate, "AAC bitrate (e.g. 128k)")

	// Reconciliation and deletion.
	fs.Float64Var(&cfg.MatchThreshold, "match-threshold", cfg.MatchThreshold, "Minimum fuzzy match score (0-100]")
	fs.IntVar(&cfg.DeleteAttempts, "delete-attempts", cfg.DeleteAttempts, "Deletion attempts before giving up")
	fs.DurationVar(&cfg.DeleteDelay, "delete-delay", cfg.DeleteDelay, "Delay between deletion attempts")

	// Display and logging.
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Color mode: auto | always | never")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")

	// Utility.
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML config file")
	fs.BoolVar(&m.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&m.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&m.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&m.showHelp, "h", false, "Same as --help")
}

// applyMode resolves the mutually exclusive mode selectors into cfg.Mode.
func applyMode(cfg *Config, m *modeFlags) error {
	count := 0
	if m.reconcile {
		cfg.Mode = ModeReconcile
		count++
	}
	if m.status {
		cfg.Mode = ModeStatus
		count++
	}
	if m.watch {
		cfg.Mode = ModeWatch
		count++
	}
	if count > 1 {
		return fmt.Errorf("--reconcile, --status and --watch are mutually exclusive")
	}
	return nil
}

// parsePositionalArgs sets SourceDir and TargetDir from the two positional
// args when not in CheckOnly mode. The config file may have supplied them
// already; positional args override it.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	switch len(args) {
	case 0:
		// Paths must come from the config file then; Validate enforces presence.
		return nil
	case 2:
		cfg.SourceDir = NormalizeDirArg(args[0])
		cfg.TargetDir = NormalizeDirArg(args[1])
		return nil
	default:
		return fmt.Errorf("need exactly source_dir and target_dir")
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 30
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "carconv v" + version + " — car-player media converter and reconciler"},
		{"", ""},
		{"  carconv [OPTIONS] <source_dir> <target_dir>", ""},
		{"", ""},
		{"Mode", ""},
		{"  --reconcile", "Match converted files to originals, then delete originals"},
		{"  --status", "Report conversion progress only"},
		{"  --watch", "Convert new files as they appear"},
		{"  -c, --check", "Tool diagnostics (ffmpeg, ffprobe, x264, AAC)"},
		{"", ""},
		{"Conversion", ""},
		{"  -d, --dry-run", "Preview only; no transcodes, copies or deletions"},
		{"  --max <n>", "Process at most n files (default: all)"},
		{"  --transcode-jobs <n>", "Concurrent ffmpeg invocations (default: 1)"},
		{"  --crf <value>", "x264 constant rate factor (default: 23)"},
		{"  --preset <name>", "x264 preset (default: medium)"},
		{"  --audio-bitrate <rate>", "AAC bitrate (default: 128k)"},
		{"", ""},
		{"Reconciliation", ""},
		{"  --match-threshold <score>", "Minimum fuzzy match score (default: 50)"},
		{"  --delete-attempts <n>", "Deletion attempts before giving up (default: 5)"},
		{"  --delete-delay <dur>", "Delay between deletion attempts (default: 1s)"},
		{"", ""},
		{"Display", ""},
		{"  --color <auto|always|never>", "Color mode (default: auto)"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --config <path>", "YAML config file"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// colorModeValue adapts ColorMode to flag.Value.
type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
