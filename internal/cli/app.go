package cli

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/internal/config"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/internal/logger"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/agent"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/executor"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/orchestrator"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/session"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/store"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/tools"
)

// app holds the assembled runtime shared by commands. cfg and
// executors may be swapped by a config reload; read them under mu.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	store     *store.Store
	tools     *tools.Registry
	executors *executor.Registry
	watcher   *config.Watcher
	mu        sync.RWMutex
}

// newApp loads config, opens the store, and builds the executor
// registry from the configured providers.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	lg, err := logger.New(logger.Config{
		Level:     level,
		File:      cfg.Logging.File,
		Console:   true,
		Pretty:    true,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return nil, err
	}

	st, err := store.Open(store.Config{
		Path:   cfg.Store.Path,
		Logger: lg.Zerolog(),
	})
	if err != nil {
		lg.Close()
		return nil, err
	}
	if cfg.Store.Seed {
		if err := st.Seed(); err != nil {
			st.Close()
			lg.Close()
			return nil, err
		}
	}

	toolReg := tools.New()
	if err := tools.RegisterSupportTools(toolReg, st); err != nil {
		st.Close()
		lg.Close()
		return nil, err
	}

	execReg, err := buildExecutors(cfg, toolReg, lg.Zerolog())
	if err != nil {
		st.Close()
		lg.Close()
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		log:       lg,
		store:     st,
		tools:     toolReg,
		executors: execReg,
	}
	a.startWatcher()

	return a, nil
}

// startWatcher begins live config reload. A broken watcher never stops
// the app; settings just stay fixed for the process lifetime.
func (a *app) startWatcher() {
	w, err := config.NewWatcher(config.NewLoader(cfgFile), a.applyConfig)
	if err != nil {
		lg := a.log.Zerolog()
		lg.Warn().Err(err).Msg("Config watcher unavailable")
		return
	}
	if err := w.Start(); err != nil {
		lg := a.log.Zerolog()
		lg.Warn().Err(err).Msg("Config watcher failed to start")
		return
	}
	a.watcher = w
}

// applyConfig swaps in reloaded executor and supervisor settings.
// Running conversation threads keep their orchestrators; threads
// created afterwards pick up the new settings.
func (a *app) applyConfig(cfg *config.Config) {
	execReg, err := buildExecutors(cfg, a.tools, a.log.Zerolog())
	if err != nil {
		lg := a.log.Zerolog()
		lg.Error().Err(err).Msg("Reloaded executor settings rejected, keeping previous")
		return
	}

	a.mu.Lock()
	a.cfg.Executors = cfg.Executors
	a.cfg.Supervisor = cfg.Supervisor
	a.executors = execReg
	a.mu.Unlock()

	lg := a.log.Zerolog()
	lg.Info().Msg("Executor settings reloaded, new conversation threads use them")
}

func (a *app) close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.store.Close()
	a.log.Close()
}

// newManager builds the per-thread orchestrator factory. Each thread
// gets its own sessions and history.
func (a *app) newManager(observer orchestrator.Observer) (*orchestrator.Manager, error) {
	lg := a.log.Zerolog()

	return orchestrator.NewManager(func(threadID string) (*orchestrator.Orchestrator, error) {
		a.mu.RLock()
		execReg := a.executors
		maxIterations := a.cfg.Supervisor.MaxIterations
		a.mu.RUnlock()

		sessions := session.NewRegistry(session.NewInMemoryStore(), threadID, "user_"+threadID, lg)

		opts := []orchestrator.Option{
			orchestrator.WithLogger(lg),
			orchestrator.WithMaxIterations(maxIterations),
		}
		if observer != nil {
			opts = append(opts, orchestrator.WithObserver(observer))
		}

		return orchestrator.New(execReg, sessions, opts...)
	})
}

// buildExecutors creates one runner per executor, sharing providers
// across executors bound to the same AI profile.
func buildExecutors(cfg *config.Config, toolReg *tools.Registry, lg zerolog.Logger) (*executor.Registry, error) {
	specs := map[executor.ID]config.ExecutorConfig{
		executor.Router:       cfg.Executors.Router,
		executor.CustomerData: cfg.Executors.CustomerData,
		executor.Support:      cfg.Executors.Support,
		executor.SQL:          cfg.Executors.SQL,
	}

	providers := map[string]agent.Provider{}
	bindings := map[executor.ID]executor.Executor{}

	for id, ec := range specs {
		profile, err := cfg.Profile(ec.Profile)
		if err != nil {
			return nil, fmt.Errorf("executor %s: %w", id, err)
		}

		provider, ok := providers[profile.ID]
		if !ok {
			provider, err = agent.NewProvider(agent.Profile{
				Provider: profile.Provider,
				APIKey:   profile.APIKey,
			})
			if err != nil {
				return nil, fmt.Errorf("executor %s: %w", id, err)
			}
			providers[profile.ID] = provider
		}

		runner, err := agent.NewRunner(agent.RunnerConfig{
			ID:            id,
			Provider:      provider,
			Tools:         toolReg,
			Model:         ec.Model,
			Temperature:   ec.Temperature,
			MaxTokens:     ec.MaxTokens,
			MaxToolRounds: cfg.Supervisor.MaxToolRounds,
			Logger:        lg,
		})
		if err != nil {
			return nil, fmt.Errorf("executor %s: %w", id, err)
		}

		bindings[id] = runner
	}

	return executor.NewRegistry(bindings)
}
