// Package config loads the YAML runtime configuration consumed by the CLI
// and examples. Loading applies defaults and validates enumerated fields,
// so a zero file is a runnable demo configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/runner"
	"gopkg.in/yaml.v3"
)

// DefaultMaxIterations bounds runs configured without an explicit budget.
const DefaultMaxIterations = 4

// Config describes the agentrun YAML configuration file.
type Config struct {
	Agent AgentSection `yaml:"agent"`
	Loop  LoopSection  `yaml:"loop"`
	Model ModelSection `yaml:"model"`
	Tools ToolsSection `yaml:"tools"`
	Audit AuditSection `yaml:"audit"`
}

// AgentSection identifies the agent and carries its run-level policies.
type AgentSection struct {
	Name          string       `yaml:"name"`
	Description   string       `yaml:"description"`
	Goal          string       `yaml:"goal"`
	MaxIterations int          `yaml:"max_iterations"`
	Retry         RetrySection `yaml:"retry"`
}

// RetrySection is the run default retry policy.
type RetrySection struct {
	MaxRetries int   `yaml:"max_retries"`
	BackoffMS  int64 `yaml:"backoff_ms"`
	Jitter     bool  `yaml:"jitter"`
}

// LoopSection selects the control mode and pacing.
type LoopSection struct {
	Mode    string `yaml:"mode"`
	DelayMS int64  `yaml:"delay_ms"`
}

// ModelSection selects the model implementation.
type ModelSection struct {
	Provider string `yaml:"provider"`
	Name     string `yaml:"name"`
}

// ToolsSection controls tool access and the file tool sandbox.
type ToolsSection struct {
	Allowed  []string `yaml:"allowed"`
	Denied   []string `yaml:"denied"`
	FileRoot string   `yaml:"file_root"`
}

// AuditSection enables the JSONL audit trail when a path is set.
type AuditSection struct {
	Path string `yaml:"path"`
}

// Load reads and validates the configuration file.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Default returns the configuration a missing or empty file resolves to.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Agent.Name == "" {
		c.Agent.Name = "demo"
	}
	if c.Agent.Goal == "" {
		c.Agent.Goal = "Say hello and compute a sum"
	}
	if c.Agent.MaxIterations <= 0 {
		c.Agent.MaxIterations = DefaultMaxIterations
	}
	if c.Loop.Mode == "" {
		c.Loop.Mode = string(runner.ModeDeterministic)
	}
	if c.Model.Provider == "" {
		c.Model.Provider = "stub"
	}
	if c.Tools.FileRoot == "" {
		c.Tools.FileRoot = "."
	}
}

func (c Config) validate() error {
	switch runner.ControlMode(c.Loop.Mode) {
	case runner.ModeDeterministic, runner.ModeReactive, runner.ModeProcedural, runner.ModeReflectionEnabled:
	default:
		return fmt.Errorf("invalid loop.mode: %s", c.Loop.Mode)
	}

	switch c.Model.Provider {
	case "stub", "random", "openai", "anthropic":
	default:
		return fmt.Errorf("invalid model.provider: %s", c.Model.Provider)
	}

	if c.Agent.Retry.MaxRetries < 0 {
		return fmt.Errorf("agent.retry.max_retries must not be negative")
	}
	if c.Agent.Retry.BackoffMS < 0 {
		return fmt.Errorf("agent.retry.backoff_ms must not be negative")
	}
	if c.Loop.DelayMS < 0 {
		return fmt.Errorf("loop.delay_ms must not be negative")
	}

	return nil
}

// AgentConfig converts the agent section into the runtime's config type.
func (c Config) AgentConfig() core.AgentConfig {
	return core.AgentConfig{
		Name:          c.Agent.Name,
		Description:   c.Agent.Description,
		MaxIterations: c.Agent.MaxIterations,
		RetryPolicy: core.RetryPolicy{
			MaxRetries: c.Agent.Retry.MaxRetries,
			BackoffMS:  c.Agent.Retry.BackoffMS,
			Jitter:     c.Agent.Retry.Jitter,
		},
	}
}

// ControlMode returns the validated loop mode.
func (c Config) ControlMode() runner.ControlMode {
	return runner.ControlMode(c.Loop.Mode)
}

// Delay returns the configured pause between loop iterations.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Loop.DelayMS) * time.Millisecond
}

// ToolPermissions converts the tools section into the runtime's
// permission type.
func (c Config) ToolPermissions() core.ToolPermissions {
	return core.ToolPermissions{
		Allowed: c.Tools.Allowed,
		Denied:  c.Tools.Denied,
	}
}
