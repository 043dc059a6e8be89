// Package config loads the YAML configuration of the hal command.
package config

import (
	"log/slog"
	"os"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/hal/internal/parallel"
)

// Framework names accepted in Config.Framework.
const (
	FrameworkNative = "native"
	FrameworkOpenCL = "opencl"
	FrameworkCUDA   = "cuda"
	FrameworkWebGPU = "webgpu"
)

// Frameworks lists every framework name in probing order.
var Frameworks = []string{FrameworkNative, FrameworkOpenCL, FrameworkCUDA, FrameworkWebGPU}

// Config selects a framework and the hardware the hal command binds.
type Config struct {
	Framework string         `yaml:"framework"`
	Hardwares []string       `yaml:"hardwares,omitempty"` // Hardware IDs; empty selects all.
	Inventory string         `yaml:"inventory,omitempty"` // Simulated driver inventory; empty uses the built-in one.
	LogLevel  string         `yaml:"log_level"`
	Parallel  ParallelConfig `yaml:"parallel"`
}

// ParallelConfig tunes the native framework's worker pool.
type ParallelConfig struct {
	MinChunkSize int `yaml:"min_chunk_size"`
}

// DefaultConfig probes the native framework on all host hardware.
func DefaultConfig() *Config {
	return &Config{
		Framework: FrameworkNative,
		LogLevel:  "warn",
		Parallel: ParallelConfig{
			MinChunkSize: parallel.DefaultMinChunkSize,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the framework name, log level and chunk size.
func (c *Config) Validate() error {
	if !slices.Contains(Frameworks, c.Framework) {
		return errors.Errorf("unknown framework %q (want one of %v)", c.Framework, Frameworks)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Parallel.MinChunkSize < 1 {
		return errors.Errorf("parallel.min_chunk_size must be positive, got %d", c.Parallel.MinChunkSize)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return level, nil
}
