// Package config defines the assistant's configuration surface.
package config

import (
	"encoding/json"
	"fmt"
)

// Config is the root configuration for the support assistant.
type Config struct {
	// DataDir holds the database, logs, and other state.
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// Store configures the SQLite support database.
	Store StoreConfig `json:"store" mapstructure:"store"`

	// Executors configures the model behind each executor.
	Executors ExecutorsConfig `json:"executors" mapstructure:"executors"`

	// Supervisor configures the routing loop.
	Supervisor SupervisorConfig `json:"supervisor" mapstructure:"supervisor"`

	// AI holds provider credentials.
	AI AIConfig `json:"ai" mapstructure:"ai"`

	// Logging configures structured log output.
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// StoreConfig holds support database settings.
type StoreConfig struct {
	Path string `json:"path" mapstructure:"path"`
	Seed bool   `json:"seed" mapstructure:"seed"`
}

// ExecutorConfig configures one executor's model.
type ExecutorConfig struct {
	Model       string  `json:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
	// Profile selects an AI profile by ID. Empty means the first
	// configured profile.
	Profile string `json:"profile" mapstructure:"profile"`
}

// ExecutorsConfig holds per-executor model settings.
type ExecutorsConfig struct {
	Router       ExecutorConfig `json:"router" mapstructure:"router"`
	CustomerData ExecutorConfig `json:"customer_data" mapstructure:"customer_data"`
	Support      ExecutorConfig `json:"support" mapstructure:"support"`
	SQL          ExecutorConfig `json:"sql" mapstructure:"sql"`
}

// SupervisorConfig holds routing loop settings.
type SupervisorConfig struct {
	MaxIterations int `json:"max_iterations" mapstructure:"max_iterations"`
	MaxToolRounds int `json:"max_tool_rounds" mapstructure:"max_tool_rounds"`
}

// AIConfig holds AI provider configuration.
type AIConfig struct {
	Profiles []AIProfile `json:"profiles" mapstructure:"profiles"`
}

// AIProfile represents one provider credential.
type AIProfile struct {
	ID       string `json:"id" mapstructure:"id"`
	Provider string `json:"provider" mapstructure:"provider"` // anthropic, openai
	APIKey   string `json:"api_key" mapstructure:"api_key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Seed: true,
		},
		Executors: ExecutorsConfig{
			Router:       ExecutorConfig{Model: "gpt-4o-mini", MaxTokens: 1024},
			CustomerData: ExecutorConfig{Model: "gpt-4o-mini", MaxTokens: 4096},
			Support:      ExecutorConfig{Model: "gpt-4o-mini", MaxTokens: 4096},
			SQL:          ExecutorConfig{Model: "gpt-3.5-turbo", MaxTokens: 4096},
		},
		Supervisor: SupervisorConfig{
			MaxIterations: 5,
			MaxToolRounds: 8,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Redaction: true,
		},
	}
}

// String returns a JSON representation of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Profile resolves an AI profile by ID; an empty ID yields the first
// configured profile.
func (c *Config) Profile(id string) (AIProfile, error) {
	if len(c.AI.Profiles) == 0 {
		return AIProfile{}, fmt.Errorf("no AI profiles configured")
	}
	if id == "" {
		return c.AI.Profiles[0], nil
	}
	for _, p := range c.AI.Profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return AIProfile{}, fmt.Errorf("unknown AI profile: %s", id)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.AI.Profiles) == 0 {
		return fmt.Errorf("no AI credentials configured: at least one AI profile is required")
	}

	for i, profile := range c.AI.Profiles {
		if profile.ID == "" {
			return fmt.Errorf("AI profile %d: ID is required", i)
		}
		if profile.Provider != "anthropic" && profile.Provider != "openai" {
			return fmt.Errorf("AI profile %s: invalid provider %s (must be: anthropic, openai)", profile.ID, profile.Provider)
		}
		if profile.APIKey == "" {
			return fmt.Errorf("AI profile %s: api_key is required", profile.ID)
		}
	}

	executors := map[string]ExecutorConfig{
		"router":        c.Executors.Router,
		"customer_data": c.Executors.CustomerData,
		"support":       c.Executors.Support,
		"sql":           c.Executors.SQL,
	}
	for name, ec := range executors {
		if ec.Model == "" {
			return fmt.Errorf("executor %s: model is required", name)
		}
		if ec.Profile != "" {
			if _, err := c.Profile(ec.Profile); err != nil {
				return fmt.Errorf("executor %s: %w", name, err)
			}
		}
	}

	if c.Supervisor.MaxIterations <= 0 {
		return fmt.Errorf("supervisor max_iterations must be positive")
	}

	return nil
}
