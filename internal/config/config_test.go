package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.AI.Profiles = []AIProfile{
		{ID: "main", Provider: "openai", APIKey: "sk-test"},
	}
	return cfg
}

func TestValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("requires a profile", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no AI credentials")
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.AI.Profiles[0].Provider = "gemini"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects missing api key", func(t *testing.T) {
		cfg := validConfig()
		cfg.AI.Profiles[0].APIKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("requires executor models", func(t *testing.T) {
		cfg := validConfig()
		cfg.Executors.SQL.Model = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sql")
	})

	t.Run("rejects dangling profile reference", func(t *testing.T) {
		cfg := validConfig()
		cfg.Executors.Router.Profile = "missing"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive iterations", func(t *testing.T) {
		cfg := validConfig()
		cfg.Supervisor.MaxIterations = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestProfile(t *testing.T) {
	cfg := validConfig()
	cfg.AI.Profiles = append(cfg.AI.Profiles, AIProfile{ID: "alt", Provider: "anthropic", APIKey: "sk-alt"})

	t.Run("empty ID returns first", func(t *testing.T) {
		p, err := cfg.Profile("")
		require.NoError(t, err)
		assert.Equal(t, "main", p.ID)
	})

	t.Run("lookup by ID", func(t *testing.T) {
		p, err := cfg.Profile("alt")
		require.NoError(t, err)
		assert.Equal(t, "anthropic", p.Provider)
	})

	t.Run("unknown ID", func(t *testing.T) {
		_, err := cfg.Profile("nope")
		assert.Error(t, err)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gpt-4o-mini", cfg.Executors.Router.Model)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Executors.SQL.Model)
	assert.Equal(t, 5, cfg.Supervisor.MaxIterations)
	assert.True(t, cfg.Store.Seed)
}
