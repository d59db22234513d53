// Package config provides configuration loading and management for leemiv.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"leemiv/internal/logging"
	"leemiv/internal/models"
	"leemiv/pkg/background"
	"leemiv/pkg/smoothing"
	"leemiv/pkg/visualization"
)

// Smoothing is the YAML form of one data category's smoothing setting
type Smoothing struct {
	// Enabled turns smoothing of extracted curves on
	Enabled bool `yaml:"enabled"`

	// WindowType is one of flat, hanning, hamming, bartlett, blackman
	WindowType string `yaml:"windowType"`

	// WindowLength is the kernel length; odd values are rounded up
	WindowLength int `yaml:"windowLength"`
}

// Engine converts the YAML form into the smoothing package's config.
func (s Smoothing) Engine() smoothing.Config {
	return smoothing.Config{Enabled: s.Enabled, Type: smoothing.WindowType(s.WindowType), Length: s.WindowLength}
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for loading and writing
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// LEEM (real space imaging) parameters
	LEEM struct {
		Smoothing Smoothing `yaml:"smoothing"`

		// Reflectivity normalizes each curve to its maximum
		Reflectivity bool `yaml:"reflectivity"`
	} `yaml:"leem"`

	// LEED (diffraction) parameters
	LEED struct {
		Smoothing Smoothing `yaml:"smoothing"`

		Reflectivity bool `yaml:"reflectivity"`

		// WindowSide is the side length in pixels of a beam integration window
		WindowSide int `yaml:"windowSide"`

		// OutputAverage writes the averaged beam curve instead of the individual beams
		OutputAverage bool `yaml:"outputAverage"`
	} `yaml:"leed"`

	// Automatic background placement
	Background struct {
		// Strategy is quadrant or circular
		Strategy string `yaml:"strategy"`

		// Buffer is the pixel gap between the beam and its background boxes.
		// Zero selects the strategy's own default.
		Buffer int `yaml:"buffer"`

		BeamToBackgroundRatio int `yaml:"beamToBackgroundRatio"`
		GapSizeRatio          int `yaml:"gapSizeRatio"`
	} `yaml:"background"`

	// Experiment description used to build the spectral axis
	Experiment struct {
		// Type is LEEM or LEED
		Type string `yaml:"type"`

		// EnergyStart and EnergyStep in eV label an energy sweep
		EnergyStart float64 `yaml:"energyStart"`
		EnergyStep  float64 `yaml:"energyStep"`

		// TimeSeries labels frames in seconds instead of energy
		TimeSeries bool    `yaml:"timeSeries"`
		TimeStep   float64 `yaml:"timeStep"`
	} `yaml:"experiment"`

	// Display parameters
	Display struct {
		// PaletteSize bounds the number of live selections per kind
		PaletteSize int `yaml:"paletteSize"`
	} `yaml:"display"`

	// Output parameters
	Output struct {
		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`

		// LogLevel is debug, info, warn or error
		LogLevel string `yaml:"logLevel"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default

	def := smoothing.DefaultConfig()
	cfg.LEEM.Smoothing = Smoothing{Enabled: def.Enabled, WindowType: string(def.Type), WindowLength: def.Length}
	cfg.LEED.Smoothing = cfg.LEEM.Smoothing
	cfg.LEED.WindowSide = 40

	cfg.Background.Strategy = "quadrant"
	cfg.Background.BeamToBackgroundRatio = 3
	cfg.Background.GapSizeRatio = 4

	cfg.Experiment.Type = "LEEM"
	cfg.Experiment.EnergyStart = 0
	cfg.Experiment.EnergyStep = 0.1
	cfg.Experiment.TimeStep = 1.0

	cfg.Display.PaletteSize = len(visualization.DefaultPalette)

	cfg.Output.Verbose = false
	cfg.Output.LogLevel = "info"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks the configuration at the boundary, before any value reaches
// the extraction core. Odd window lengths and sides are rounded up with a
// warning; a non-positive time step falls back to 1 s. Everything else that
// is out of range is rejected.
func (c *Config) Validate() error {
	if c.Processing.NumCores <= 0 {
		c.Processing.NumCores = runtime.NumCPU()
	}

	for _, s := range []struct {
		name string
		cfg  *Smoothing
	}{{"leem", &c.LEEM.Smoothing}, {"leed", &c.LEED.Smoothing}} {
		norm, err := s.cfg.Engine().Normalize()
		if err != nil {
			return fmt.Errorf("%s smoothing: %w", s.name, err)
		}
		if norm.Length != s.cfg.WindowLength {
			logging.Warnf("%s smoothing window length %d is odd, using %d", s.name, s.cfg.WindowLength, norm.Length)
		}
		s.cfg.WindowType = string(norm.Type)
		s.cfg.WindowLength = norm.Length
	}

	if c.LEED.WindowSide <= 0 {
		return fmt.Errorf("leed window side %d must be positive: %w", c.LEED.WindowSide, models.ErrInvalidInput)
	}
	if c.LEED.WindowSide%2 != 0 {
		logging.Warnf("leed window side %d is odd, using %d", c.LEED.WindowSide, c.LEED.WindowSide+1)
		c.LEED.WindowSide++
	}

	strategy, err := background.ParseStrategy(c.Background.Strategy)
	if err != nil {
		return err
	}
	c.Background.Strategy = strategy.Name()
	if err := c.BackgroundParams(strategy).Validate(); err != nil {
		return err
	}

	switch strings.ToUpper(c.Experiment.Type) {
	case "LEEM", "LEED":
		c.Experiment.Type = strings.ToUpper(c.Experiment.Type)
	default:
		return fmt.Errorf("experiment type %q must be LEEM or LEED: %w", c.Experiment.Type, models.ErrInvalidInput)
	}
	if c.Experiment.TimeSeries && c.Experiment.TimeStep <= 0 {
		logging.Warnf("time step %g is not positive, using 1.0 s", c.Experiment.TimeStep)
		c.Experiment.TimeStep = 1.0
	}

	if c.Display.PaletteSize <= 0 {
		return fmt.Errorf("palette size %d must be positive: %w", c.Display.PaletteSize, models.ErrInvalidInput)
	}
	if _, ok := logging.ParseLevel(c.Output.LogLevel); !ok {
		return fmt.Errorf("unknown log level %q: %w", c.Output.LogLevel, models.ErrInvalidInput)
	}
	return nil
}

// BackgroundParams merges the configured background geometry over the
// strategy's defaults. Zero values keep the default.
func (c *Config) BackgroundParams(s background.Strategy) background.Params {
	p := s.DefaultParams()
	if c.Background.Buffer > 0 {
		p.Buffer = c.Background.Buffer
	}
	if c.Background.BeamToBackgroundRatio != 0 {
		p.BeamToBackgroundRatio = c.Background.BeamToBackgroundRatio
	}
	if c.Background.GapSizeRatio != 0 {
		p.GapSizeRatio = c.Background.GapSizeRatio
	}
	return p
}

// Axis builds the spectral axis for a stack of n frames.
func (c *Config) Axis(n int) (models.SpectralAxis, error) {
	if c.Experiment.TimeSeries {
		return models.TimeAxis(c.Experiment.TimeStep, n)
	}
	return models.EnergyAxis(c.Experiment.EnergyStart, c.Experiment.EnergyStep, n)
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
