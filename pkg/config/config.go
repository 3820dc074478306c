// Package config loads mxl2mei settings from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/james-see/mxl2mei/pkg/logging"
)

// Defaults
const (
	DefaultIDPrefix        = "mxl2mei"
	DefaultPort            = 8080
	DefaultCacheTTL        = 10 * time.Minute
	DefaultTicksPerQuarter = 480
	DefaultVelocity        = 96
)

// Config holds every tunable of the CLI, TUI and API server
type Config struct {
	IDPrefix string       `yaml:"id_prefix"`
	Log      LogConfig    `yaml:"log"`
	Server   ServerConfig `yaml:"server"`
	MIDI     MIDIConfig   `yaml:"midi"`
}

// LogConfig selects the log level ("debug", "info", "warn", "error") and format ("text", "json")
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port     int           `yaml:"port"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// MIDIConfig configures MIDI previews
type MIDIConfig struct {
	TicksPerQuarter uint16 `yaml:"ticks_per_quarter"`
	Velocity        uint8  `yaml:"velocity"`
}

// Default returns a Config with every field set to its default
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadFile loads and parses a YAML config file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = DefaultIDPrefix
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.CacheTTL == 0 {
		cfg.Server.CacheTTL = DefaultCacheTTL
	}
	if cfg.MIDI.TicksPerQuarter == 0 {
		cfg.MIDI.TicksPerQuarter = DefaultTicksPerQuarter
	}
	if cfg.MIDI.Velocity == 0 {
		cfg.MIDI.Velocity = DefaultVelocity
	}
}

// Validate checks values that have no usable default
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: port %d out of range", c.Server.Port)
	}
	if c.MIDI.Velocity > 127 {
		return fmt.Errorf("invalid config: velocity %d above 127", c.MIDI.Velocity)
	}
	return nil
}

// InitLogging configures the global logger from the log section
func (c *Config) InitLogging() {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	logging.InitLogger(level, format)
}

// Marshal serializes a Config to YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteFile writes a Config to the given path.
func WriteFile(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
