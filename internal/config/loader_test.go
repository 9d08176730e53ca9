package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", cfg.Executors.Router.Model)
		assert.NotEmpty(t, cfg.Store.Path)
		assert.NotEmpty(t, cfg.Logging.File)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		payload := `{
			"data_dir": "` + dir + `",
			"executors": {"sql": {"model": "gpt-4o"}},
			"supervisor": {"max_iterations": 3},
			"ai": {"profiles": [{"id": "main", "provider": "openai", "api_key": "sk-x"}]}
		}`
		require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", cfg.Executors.SQL.Model)
		// Untouched defaults survive partial files.
		assert.Equal(t, "gpt-4o-mini", cfg.Executors.Router.Model)
		assert.Equal(t, 3, cfg.Supervisor.MaxIterations)
		assert.Equal(t, filepath.Join(dir, "support.db"), cfg.Store.Path)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("malformed file reports error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	loader := NewLoader(path)

	cfg := DefaultConfig()
	cfg.DataDir = filepath.Dir(path)
	cfg.AI.Profiles = []AIProfile{{ID: "main", Provider: "anthropic", APIKey: "sk-a"}}
	cfg.Executors.Router.Model = "claude-3-5-haiku-latest"
	require.NoError(t, loader.Save(cfg))

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", loaded.Executors.Router.Model)
	require.Len(t, loaded.AI.Profiles, 1)
	assert.Equal(t, "anthropic", loaded.AI.Profiles[0].Provider)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	loader := NewLoader(path)

	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.AI.Profiles = []AIProfile{{ID: "main", Provider: "openai", APIKey: "sk-x"}}
	require.NoError(t, loader.Save(cfg))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(loader, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	cfg.Executors.Router.Model = "gpt-4o"
	require.NoError(t, loader.Save(cfg))

	select {
	case got := <-reloaded:
		assert.Equal(t, "gpt-4o", got.Executors.Router.Model)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not observed")
	}
}
