// Package config provides configuration loading and validation for otcam.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceCAM/pkg/export"
)

// DefaultFile is looked up in the working directory when no --config is given
const DefaultFile = ".otcam.yaml"

// Config is the root configuration structure.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig configures artifact generation.
type ExportConfig struct {
	OutputDir            string `yaml:"output_dir"`
	DefaultName          string `yaml:"default_name"` // Base name for unnamed boards
	GerberExt            string `yaml:"gerber_ext"`
	DrillExt             string `yaml:"drill_ext"`
	LegacyCopperAperture bool   `yaml:"legacy_copper_aperture"` // Omit D10 on copper layers
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "console" or "json"
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads path if it exists and falls back to defaults
// (plus environment overrides) otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		_, err := os.Stat(path)
		if err == nil {
			return Load(path)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	var cfg Config
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies OTCAM_* environment variables to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OTCAM_OUTPUT_DIR"); v != "" {
		cfg.Export.OutputDir = v
	}
	if v := os.Getenv("OTCAM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OTCAM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

func setDefaults(cfg *Config) {
	def := export.DefaultConfig()
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = def.OutputDir
	}
	if cfg.Export.DefaultName == "" {
		cfg.Export.DefaultName = def.DefaultName
	}
	if cfg.Export.GerberExt == "" {
		cfg.Export.GerberExt = def.GerberExt
	}
	if cfg.Export.DrillExt == "" {
		cfg.Export.DrillExt = def.DrillExt
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if strings.ContainsAny(c.Export.GerberExt, `./\`) {
		errs = append(errs, fmt.Sprintf("export.gerber_ext must be a bare extension, got %q", c.Export.GerberExt))
	}
	if strings.ContainsAny(c.Export.DrillExt, `./\`) {
		errs = append(errs, fmt.Sprintf("export.drill_ext must be a bare extension, got %q", c.Export.DrillExt))
	}
	if c.Export.GerberExt == c.Export.DrillExt {
		errs = append(errs, "export.gerber_ext and export.drill_ext must differ")
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, fmt.Sprintf("logging.level: %v", err))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LogLevel parses Logging.Level
func (c *Config) LogLevel() (zerolog.Level, error) {
	return zerolog.ParseLevel(c.Logging.Level)
}

// ExportOptions converts the export section for the orchestrator
func (c *Config) ExportOptions(logger zerolog.Logger) export.Config {
	return export.Config{
		OutputDir:            c.Export.OutputDir,
		DefaultName:          c.Export.DefaultName,
		GerberExt:            c.Export.GerberExt,
		DrillExt:             c.Export.DrillExt,
		LegacyCopperAperture: c.Export.LegacyCopperAperture,
		Logger:               logger,
	}
}
