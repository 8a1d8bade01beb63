// Package config provides configuration loading and management for
// niftiview. Values come from a YAML file with NIFTIVIEW_* environment
// variables layered on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Analysis parameters
	Analysis struct {
		// MaxLabelValues is the distinct-value ceiling for the label
		// heuristic
		MaxLabelValues int `yaml:"maxLabelValues" mapstructure:"maxLabelValues"`

		// IntegralityTolerance is how far from a whole number a value
		// may sit and still count as integral
		IntegralityTolerance float64 `yaml:"integralityTolerance" mapstructure:"integralityTolerance"`

		// OrthogonalityTolerance bounds the affine orthogonality check
		OrthogonalityTolerance float64 `yaml:"orthogonalityTolerance" mapstructure:"orthogonalityTolerance"`
	} `yaml:"analysis" mapstructure:"analysis"`

	// Export parameters
	Export struct {
		// Format selects the default export encoding: json or yaml
		Format string `yaml:"format" mapstructure:"format"`

		// Indent is the JSON indentation width
		Indent int `yaml:"indent" mapstructure:"indent"`
	} `yaml:"export" mapstructure:"export"`

	// Slices parameters for preview image extraction
	Slices struct {
		// Axes lists which axes to extract previews along
		Axes []string `yaml:"axes" mapstructure:"axes"`

		// JPEGQuality is the encoder quality for saved previews
		JPEGQuality int `yaml:"jpegQuality" mapstructure:"jpegQuality"`
	} `yaml:"slices" mapstructure:"slices"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	} `yaml:"output" mapstructure:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Analysis.MaxLabelValues = 50
	cfg.Analysis.IntegralityTolerance = 1e-8
	cfg.Analysis.OrthogonalityTolerance = 1e-6

	cfg.Export.Format = "json"
	cfg.Export.Indent = 2

	cfg.Slices.Axes = []string{"x", "y", "z"}
	cfg.Slices.JPEGQuality = 90

	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file, overlaying NIFTIVIEW_*
// environment variables. If the file doesn't exist, it returns the default
// configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("NIFTIVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Registering defaults makes the keys visible to viper, which is what
	// lets AutomaticEnv pick up NIFTIVIEW_* overrides for them.
	v.SetDefault("analysis.maxLabelValues", cfg.Analysis.MaxLabelValues)
	v.SetDefault("analysis.integralityTolerance", cfg.Analysis.IntegralityTolerance)
	v.SetDefault("analysis.orthogonalityTolerance", cfg.Analysis.OrthogonalityTolerance)
	v.SetDefault("export.format", cfg.Export.Format)
	v.SetDefault("export.indent", cfg.Export.Indent)
	v.SetDefault("slices.axes", cfg.Slices.Axes)
	v.SetDefault("slices.jpegQuality", cfg.Slices.JPEGQuality)
	v.SetDefault("output.verbose", cfg.Output.Verbose)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
