package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/executor"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/tools"
)

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	ID            executor.ID
	Provider      Provider
	Tools         *tools.Registry
	Model         string
	Temperature   float64
	MaxTokens     int
	MaxToolRounds int
	MaxRetries    int
	Logger        zerolog.Logger
}

// Runner drives one executor's conversation loop: model call, tool
// execution, repeat until the model answers in plain text. It keeps a
// per-session message history so follow-up turns see prior context.
type Runner struct {
	cfg       RunnerConfig
	histories map[string][]Message
	mu        sync.Mutex
}

var _ executor.Executor = (*Runner)(nil)

// NewRunner creates a runner for one executor.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("executor ID is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 8
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	return &Runner{
		cfg:       cfg,
		histories: make(map[string][]Message),
	}, nil
}

// ID returns the executor identity this runner serves.
func (r *Runner) ID() executor.ID {
	return r.cfg.ID
}

// Run processes one message for a session and returns the emitted
// events. The last event carries the final text.
func (r *Runner) Run(ctx context.Context, sessionID, userID, message string) ([]executor.Event, error) {
	key := sessionID + "/" + userID

	r.mu.Lock()
	messages := append([]Message{}, r.histories[key]...)
	r.mu.Unlock()

	messages = append(messages, Message{Role: "user", Content: message})
	specs := r.toolSpecs()

	var events []executor.Event

	for round := 0; round < r.cfg.MaxToolRounds; round++ {
		resp, err := r.call(ctx, Request{
			Model:        r.cfg.Model,
			Messages:     messages,
			Tools:        specs,
			Temperature:  r.cfg.Temperature,
			MaxTokens:    r.cfg.MaxTokens,
			SystemPrompt: Instruction(r.cfg.ID),
		})
		if err != nil {
			return nil, fmt.Errorf("%s executor call failed: %w", r.cfg.ID, err)
		}

		if len(resp.ToolCalls) == 0 {
			messages = append(messages, Message{Role: "assistant", Content: resp.Content})
			events = append(events, executor.Event{Text: resp.Content, Final: true})

			r.mu.Lock()
			r.histories[key] = messages
			r.mu.Unlock()

			return events, nil
		}

		messages = append(messages, Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		if resp.Content != "" {
			events = append(events, executor.Event{Text: resp.Content})
		}

		for _, tc := range resp.ToolCalls {
			result := r.cfg.Tools.Execute(ctx, tc.Name, tc.Parameters)
			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(fmt.Sprintf(`{"success":false,"error":%q}`, err.Error()))
			}

			r.cfg.Logger.Debug().
				Str("executor", string(r.cfg.ID)).
				Str("tool", tc.Name).
				Bool("success", result.Success).
				Msg("Tool call completed")

			messages = append(messages, Message{
				Role:       "tool",
				Content:    string(payload),
				ToolCallID: tc.ID,
			})
		}
	}

	return nil, fmt.Errorf("%s executor exceeded %d tool rounds", r.cfg.ID, r.cfg.MaxToolRounds)
}

// Reset drops the stored history for one session.
func (r *Runner) Reset(sessionID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.histories, sessionID+"/"+userID)
}

func (r *Runner) call(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < r.cfg.MaxRetries; attempt++ {
		resp, err := r.cfg.Provider.Call(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !IsRetryableError(err) {
			return nil, err
		}

		r.cfg.Logger.Warn().
			Str("executor", string(r.cfg.ID)).
			Int("attempt", attempt+1).
			Err(err).
			Msg("Retryable provider error")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 500 * time.Millisecond):
		}
	}

	return nil, lastErr
}

func (r *Runner) toolSpecs() []ToolSpec {
	if r.cfg.Tools == nil {
		return nil
	}

	specs := []ToolSpec{}
	for _, name := range ToolsFor(r.cfg.ID) {
		def := r.cfg.Tools.Get(name)
		if def == nil {
			continue
		}
		specs = append(specs, ToolSpec{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.SchemaMap(),
		})
	}
	return specs
}
