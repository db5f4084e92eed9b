// Package config defines the runtime's YAML configuration: which strategy
// to run and its tuning knobs, checkpoint persistence, and logging.
//
// Typed config structs with SetDefaults/Validate methods, narrowed to the
// knobs this runtime's components actually read.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoopConfig tunes the loop strategy.
type LoopConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

// ReactConfig tunes the react strategy.
type ReactConfig struct {
	MaxSteps int `yaml:"max_steps"`
}

// PlanConfig tunes the plan strategy.
type PlanConfig struct {
	MaxPlanSteps int `yaml:"max_plan_steps"`
}

// StrategyConfig selects and tunes one strategy.
type StrategyConfig struct {
	Type  string      `yaml:"type"` // "loop", "react", or "plan"
	Loop  LoopConfig  `yaml:"loop,omitempty"`
	React ReactConfig `yaml:"react,omitempty"`
	Plan  PlanConfig  `yaml:"plan,omitempty"`
}

func (c *StrategyConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "loop"
	}
}

func (c *StrategyConfig) Validate() error {
	switch c.Type {
	case "loop", "react", "plan":
		return nil
	default:
		return fmt.Errorf("config: unknown strategy type %q (want loop, react, or plan)", c.Type)
	}
}

// CheckpointConfig controls state-snapshot persistence.
type CheckpointConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval int    `yaml:"interval"` // checkpoint every N steps
	Dir      string `yaml:"dir"`      // file-backed checkpointer's directory
}

func (c *CheckpointConfig) SetDefaults() {
	if c.Interval <= 0 {
		c.Interval = 1
	}
	if c.Dir == "" {
		c.Dir = "./checkpoints"
	}
}

func (c *CheckpointConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("config: checkpoint interval must be positive, got %d", c.Interval)
	}
	return nil
}

// LoggingConfig controls pkg/logger's initialization.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
}

func (c *LoggingConfig) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown logging format %q (want text or json)", c.Format)
	}
	return nil
}

// Config is the top-level runtime configuration.
type Config struct {
	Strategy   StrategyConfig   `yaml:"strategy"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SetDefaults fills in every unset field's default, recursively.
func (c *Config) SetDefaults() {
	c.Strategy.SetDefaults()
	c.Checkpoint.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if err := c.Strategy.Validate(); err != nil {
		return err
	}
	if err := c.Checkpoint.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

// Load reads, defaults, and validates a Config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(data, path)
}

// parse unmarshals, defaults, and validates raw YAML bytes. path is used
// only for error messages.
func parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}
