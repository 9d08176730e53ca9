package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// ReloadCallback is called with the freshly loaded config after the
// file changes on disk.
type ReloadCallback func(cfg *Config)

// Watcher reloads the config file when it changes. Editors often
// replace files via rename, so the parent directory is watched and
// events are debounced until writes settle.
type Watcher struct {
	watcher        *fsnotify.Watcher
	loader         *Loader
	onReload       ReloadCallback
	debounce       time.Duration
	done           chan struct{}
	pendingTimer   *time.Timer
	pendingTimerMu sync.Mutex
	stopOnce       sync.Once
}

// NewWatcher creates a watcher for the loader's config path.
func NewWatcher(loader *Loader, onReload ReloadCallback) (*Watcher, error) {
	if onReload == nil {
		return nil, fmt.Errorf("reload callback is required")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		loader:   loader,
		onReload: onReload,
		debounce: 200 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching for config changes.
func (w *Watcher) Start() error {
	configPath := w.loader.GetConfigPath()
	if configPath == "" {
		return fmt.Errorf("failed to determine config path")
	}

	if err := w.watcher.Add(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go w.eventLoop(configPath)

	log.Info().Str("path", configPath).Msg("Config watcher started")

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
	})

	w.pendingTimerMu.Lock()
	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}
	w.pendingTimerMu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	log.Info().Msg("Config watcher stopped")
	return nil
}

func (w *Watcher) eventLoop(configPath string) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(configPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Config watcher error")

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.pendingTimerMu.Lock()
	defer w.pendingTimerMu.Unlock()

	if w.pendingTimer != nil {
		w.pendingTimer.Stop()
	}

	w.pendingTimer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}

		cfg, err := w.loader.Load()
		if err != nil {
			log.Error().Err(err).Msg("Config reload failed")
			return
		}
		if err := cfg.Validate(); err != nil {
			log.Error().Err(err).Msg("Reloaded config is invalid, keeping previous")
			return
		}

		log.Info().Msg("Config reloaded")
		w.onReload(cfg)
	})
}
