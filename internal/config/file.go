package config

// This file implements the optional YAML config file. The file supplies the
// same settings as the CLI flags; flag values win because ParseFlags
// re-parses the command line after the file has been applied.

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML document structure. All fields are optional;
// zero values leave the corresponding Config field untouched.
type fileConfig struct {
	Profile struct {
		Codec        string  `yaml:"codec"`
		MaxWidth     int     `yaml:"max_width"`
		MaxHeight    int     `yaml:"max_height"`
		MinFrameRate float64 `yaml:"min_frame_rate"`
		MaxFrameRate float64 `yaml:"max_frame_rate"`
	} `yaml:"profile"`

	Transcode struct {
		Encoder   string `yaml:"encoder"`
		Preset    string `yaml:"preset"`
		CRF       int    `yaml:"crf"`
		FrameRate int    `yaml:"frame_rate"`
		AudioRate string `yaml:"audio_bitrate"`
		Jobs      int    `yaml:"jobs"`
	} `yaml:"transcode"`

	Reconcile struct {
		MatchThreshold float64 `yaml:"match_threshold"`
	} `yaml:"reconcile"`

	Delete struct {
		Attempts int    `yaml:"attempts"`
		Delay    string `yaml:"delay"`
	} `yaml:"delete"`

	Watch struct {
		SettleDelay string `yaml:"settle_delay"`
	} `yaml:"watch"`

	Logging struct {
		Verbose bool   `yaml:"verbose"`
		Color   string `yaml:"color"`
		File    string `yaml:"file"`
	} `yaml:"logging"`

	Paths struct {
		Source string `yaml:"source"`
		Target string `yaml:"target"`
	} `yaml:"paths"`
}

// LoadFile reads a YAML config file and overlays its non-zero values onto
// cfg. Unknown keys are rejected so typos fail loudly instead of silently
// keeping defaults.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	applyString(&cfg.TargetCodec, fc.Profile.Codec)
	applyInt(&cfg.MaxWidth, fc.Profile.MaxWidth)
	applyInt(&cfg.MaxHeight, fc.Profile.MaxHeight)
	applyFloat(&cfg.MinFrameRate, fc.Profile.MinFrameRate)
	applyFloat(&cfg.MaxFrameRate, fc.Profile.MaxFrameRate)

	applyString(&cfg.VideoEncoder, fc.Transcode.Encoder)
	applyString(&cfg.EncoderPreset, fc.Transcode.Preset)
	applyInt(&cfg.CRF, fc.Transcode.CRF)
	applyInt(&cfg.OutputFrameRate, fc.Transcode.FrameRate)
	applyString(&cfg.AudioBitrate, fc.Transcode.AudioRate)
	applyInt(&cfg.TranscodeJobs, fc.Transcode.Jobs)

	applyFloat(&cfg.MatchThreshold, fc.Reconcile.MatchThreshold)

	applyInt(&cfg.DeleteAttempts, fc.Delete.Attempts)
	if err := applyDuration(&cfg.DeleteDelay, fc.Delete.Delay); err != nil {
		return fmt.Errorf("delete.delay: %w", err)
	}
	if err := applyDuration(&cfg.SettleDelay, fc.Watch.SettleDelay); err != nil {
		return fmt.Errorf("watch.settle_delay: %w", err)
	}

	if fc.Logging.Verbose {
		cfg.Verbose = true
	}
	if fc.Logging.Color != "" {
		cfg.ColorMode = ColorMode(fc.Logging.Color)
	}
	applyString(&cfg.LogFile, fc.Logging.File)

	if fc.Paths.Source != "" {
		cfg.SourceDir = NormalizeDirArg(fc.Paths.Source)
	}
	if fc.Paths.Target != "" {
		cfg.TargetDir = NormalizeDirArg(fc.Paths.Target)
	}
	return nil
}

func applyString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func applyInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func applyFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func applyDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
