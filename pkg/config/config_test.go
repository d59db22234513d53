package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"leemiv/internal/logging"
	"leemiv/internal/models"
	"leemiv/pkg/background"
	"leemiv/pkg/visualization"
)

// TestLoadMissingFile verifies defaults are returned when no file exists
func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LEED.WindowSide != 40 || cfg.Display.PaletteSize != len(visualization.DefaultPalette) {
		t.Errorf("Expected defaults, got side %d palette %d", cfg.LEED.WindowSide, cfg.Display.PaletteSize)
	}
	if cfg.LEEM.Smoothing.WindowType != "flat" || cfg.LEEM.Smoothing.WindowLength != 4 {
		t.Errorf("Unexpected default smoothing %+v", cfg.LEEM.Smoothing)
	}
}

// TestSaveAndLoad verifies a saved config round-trips through YAML
func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.LEED.Smoothing.Enabled = true
	cfg.LEED.Smoothing.WindowType = "blackman"
	cfg.Background.Strategy = "circular"
	cfg.Experiment.EnergyStart = 25.5

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !loaded.LEED.Smoothing.Enabled || loaded.LEED.Smoothing.WindowType != "blackman" {
		t.Errorf("Smoothing not preserved: %+v", loaded.LEED.Smoothing)
	}
	if loaded.Background.Strategy != "circular" || loaded.Experiment.EnergyStart != 25.5 {
		t.Errorf("Fields not preserved: %+v", loaded)
	}
}

func TestValidateCorrects(t *testing.T) {
	logging.SetOutput(io.Discard)
	defer logging.SetOutput(os.Stderr)

	cfg := DefaultConfig()
	cfg.LEEM.Smoothing.WindowLength = 5
	cfg.LEEM.Smoothing.WindowType = "Hamming"
	cfg.LEED.WindowSide = 21
	cfg.Experiment.Type = "leed"
	cfg.Experiment.TimeSeries = true
	cfg.Experiment.TimeStep = -2

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.LEEM.Smoothing.WindowLength != 6 || cfg.LEEM.Smoothing.WindowType != "hamming" {
		t.Errorf("Expected hamming/6, got %+v", cfg.LEEM.Smoothing)
	}
	if cfg.LEED.WindowSide != 22 {
		t.Errorf("Expected side 22, got %d", cfg.LEED.WindowSide)
	}
	if cfg.Experiment.Type != "LEED" || cfg.Experiment.TimeStep != 1.0 {
		t.Errorf("Unexpected experiment %+v", cfg.Experiment)
	}

	axis, err := cfg.Axis(3)
	if err != nil || axis.Unit() != models.UnitTime || axis.At(2) != 2 {
		t.Errorf("Expected time axis [0 1 2], got %v (%v)", axis.Values(), err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"window type", func(c *Config) { c.LEED.Smoothing.WindowType = "kaiser" }},
		{"window length", func(c *Config) { c.LEEM.Smoothing.WindowLength = 0 }},
		{"window side", func(c *Config) { c.LEED.WindowSide = -4 }},
		{"strategy", func(c *Config) { c.Background.Strategy = "random" }},
		{"ratio", func(c *Config) { c.Background.BeamToBackgroundRatio = -1 }},
		{"experiment", func(c *Config) { c.Experiment.Type = "XPS" }},
		{"palette", func(c *Config) { c.Display.PaletteSize = 0 }},
		{"log level", func(c *Config) { c.Output.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("leem:\n  smoothing:\n    windowType: gaussian\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestBackgroundParams(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.BackgroundParams(background.Circular{})
	if p.Buffer != 10 || p.BeamToBackgroundRatio != 3 {
		t.Errorf("Expected circular defaults, got %+v", p)
	}
	cfg.Background.Buffer = 7
	if p := cfg.BackgroundParams(background.Quadrant{}); p.Buffer != 7 || p.GapSizeRatio != 4 {
		t.Errorf("Expected buffer override, got %+v", p)
	}
}
