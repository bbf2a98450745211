// Package config loads session configuration from YAML files, with
// environment-variable substitution for secrets and endpoint overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Workflow modes.
const (
	ModeDebate   = "debate"
	ModeOptimize = "optimize"
)

const defaultTemperature = 0.7

// ParticipantConfig configures one model backend. Temperature is a
// pointer so an explicit `temperature: 0` is distinguishable from an
// absent field and is not overwritten by the default.
type ParticipantConfig struct {
	Model       string   `yaml:"model"`
	APIKey      string   `yaml:"api_key"`
	BaseURL     string   `yaml:"base_url,omitempty"`
	Temperature *float64 `yaml:"temperature"`
}

// TemperatureValue returns the configured temperature, or the default
// when the field was never set.
func (p ParticipantConfig) TemperatureValue() float64 {
	if p.Temperature == nil {
		return defaultTemperature
	}
	return *p.Temperature
}

// SessionConfig is the on-disk session description.
type SessionConfig struct {
	Question     string            `yaml:"question"`
	Mode         string            `yaml:"mode"`
	Rounds       int               `yaml:"rounds"`
	Iterations   int               `yaml:"iterations"`
	Stream       bool              `yaml:"stream"`
	Output       string            `yaml:"output"`
	LogLevel     string            `yaml:"log_level"`
	Participant1 ParticipantConfig `yaml:"participant1"`
	Participant2 ParticipantConfig `yaml:"participant2"`
}

// Loader handles loading and validating session configurations.
type Loader struct {
	configPath string
	config     *SessionConfig
}

func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load reads, substitutes, defaults and validates the configuration file.
func (l *Loader) Load() (*SessionConfig, error) {
	if l.configPath == "" {
		return nil, fmt.Errorf("configuration path is required")
	}
	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file does not exist: %s", l.configPath)
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	return l.LoadFromString(string(data))
}

// LoadFromString loads configuration from a YAML string.
func (l *Loader) LoadFromString(yamlContent string) (*SessionConfig, error) {
	var config SessionConfig
	if err := yaml.Unmarshal([]byte(yamlContent), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	l.substituteEnvVars(&config)
	l.applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	l.config = &config
	return &config, nil
}

// GetConfig returns the last loaded configuration.
func (l *Loader) GetConfig() *SessionConfig {
	return l.config
}

// substituteEnvVars replaces ${VAR_NAME} placeholders with environment
// variable values in secret-bearing and endpoint fields.
func (l *Loader) substituteEnvVars(config *SessionConfig) {
	for _, p := range []*ParticipantConfig{&config.Participant1, &config.Participant2} {
		if p.APIKey != "" {
			p.APIKey = os.ExpandEnv(p.APIKey)
		}
		if p.BaseURL != "" {
			p.BaseURL = os.ExpandEnv(p.BaseURL)
		}
	}
}

// applyDefaults fills unset fields with defaults.
func (l *Loader) applyDefaults(config *SessionConfig) {
	if config.Mode == "" {
		config.Mode = ModeDebate
	}
	if config.Rounds == 0 {
		config.Rounds = 3
	}
	if config.Iterations == 0 {
		config.Iterations = 3
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Output == "" {
		config.Output = "ai_debate_result.txt"
	}
	for _, p := range []*ParticipantConfig{&config.Participant1, &config.Participant2} {
		if p.Model == "" {
			p.Model = "gpt-3.5-turbo"
		}
		if p.Temperature == nil {
			t := defaultTemperature
			p.Temperature = &t
		}
	}
}

// Validate checks the configuration for orchestration-level errors before
// any model call is issued.
func (c *SessionConfig) Validate() error {
	if c.Question == "" {
		return fmt.Errorf("question is required")
	}
	if c.Mode != ModeDebate && c.Mode != ModeOptimize {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDebate, ModeOptimize, c.Mode)
	}
	if c.Mode == ModeDebate && c.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", c.Rounds)
	}
	if c.Mode == ModeOptimize && c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.Participant1.APIKey == "" {
		return fmt.Errorf("participant1 api_key is required")
	}
	if c.Participant2.APIKey == "" {
		return fmt.Errorf("participant2 api_key is required")
	}
	return nil
}
