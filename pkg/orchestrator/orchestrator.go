package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/executor"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/session"
)

// defaultMaxIterations bounds the supervisor loop per query.
const defaultMaxIterations = 5

// connectionFailureResponse is the synthetic result recorded when a
// dispatch fails on connectivity. The loop stops after recording it.
const connectionFailureResponse = "Error: backend connection failed. Ensure the model provider and support store are reachable."

// Orchestrator coordinates one conversation thread: it asks the router
// for a decision, dispatches the chosen executor, and repeats until
// the router declares completion or the iteration cap is hit.
//
// It makes no routing decisions of its own; the router executor owns
// all routing.
type Orchestrator struct {
	registry      *executor.Registry
	sessions      *session.Registry
	decider       *Decider
	dispatcher    *Dispatcher
	history       *History
	observer      Observer
	maxIterations int
	logger        zerolog.Logger
	mu            sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver installs a loop event observer.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) { o.observer = observer }
}

// WithMaxIterations overrides the per-query iteration cap.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithParser replaces the decision parser.
func WithParser(parser DecisionParser) Option {
	return func(o *Orchestrator) {
		o.decider.parser = parser
	}
}

// New creates an orchestrator over the given executors and sessions.
// The registry must contain the router executor.
func New(registry *executor.Registry, sessions *session.Registry, opts ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, fmt.Errorf("executor registry is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session registry is required")
	}

	router, ok := registry.Get(executor.Router)
	if !ok {
		return nil, fmt.Errorf("registry has no %s executor", executor.Router)
	}

	o := &Orchestrator{
		registry:      registry,
		sessions:      sessions,
		history:       NewHistory(),
		maxIterations: defaultMaxIterations,
		logger:        zerolog.Nop(),
	}
	o.decider = NewDecider(router, sessions, NewLayeredParser(registry, o.logger), o.logger)
	o.dispatcher = NewDispatcher(registry, sessions, o.logger)

	for _, opt := range opts {
		opt(o)
	}

	o.decider.logger = o.logger
	o.dispatcher.logger = o.logger
	if lp, ok := o.decider.parser.(*LayeredParser); ok {
		lp.logger = o.logger
	}

	return o, nil
}

// History exposes the thread's conversation history.
func (o *Orchestrator) History() *History {
	return o.history
}

// ProcessQuery runs the supervisor loop for one query and returns the
// aggregated reply. It never fails outward: unexpected errors are
// rendered as "Error: {message}".
func (o *Orchestrator) ProcessQuery(ctx context.Context, query string) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	response, err := o.processQuery(ctx, query)
	if err != nil {
		o.logger.Error().Err(err).Str("query", query).Msg("Query processing failed")
		return fmt.Sprintf("Error: %s", err.Error())
	}
	return response
}

func (o *Orchestrator) processQuery(ctx context.Context, query string) (string, error) {
	turnID := newTurnID()
	recent := o.history.Recent(3)

	var results []ExecutorResult
	done := false

	for iteration := 1; iteration <= o.maxIterations && !done; iteration++ {
		decision := o.decider.Decide(ctx, query, recent, results)

		o.logger.Debug().
			Str("turn_id", turnID).
			Int("iteration", iteration).
			Str("next", string(decision.Next)).
			Bool("done", decision.Done).
			Str("reason", decision.Reason).
			Msg("Router decision")

		if iteration == 1 {
			o.emit(Event{
				Type: EventRouting, TurnID: turnID, Iteration: iteration,
				Query: query, Decision: &decision,
			})
		}

		if decision.Done || decision.Next == "" {
			o.emit(Event{
				Type: EventCompletion, TurnID: turnID, Iteration: iteration,
				Query: query, Results: results,
			})
			done = true
			break
		}

		var from executor.ID
		if len(results) > 0 {
			from = results[len(results)-1].Executor
		}
		o.emit(Event{
			Type: EventHandoff, TurnID: turnID, Iteration: iteration,
			From: from, To: decision.Next, Reason: decision.Reason,
		})

		response, err := o.dispatcher.Dispatch(ctx, decision.Next, query, recent, results)
		if err != nil {
			var connErr *ConnectionError
			if errors.As(err, &connErr) {
				o.logger.Error().
					Str("turn_id", turnID).
					Str("executor", string(connErr.Executor)).
					Err(connErr.Err).
					Msg("Dispatch failed on connectivity, stopping")
				results = append(results, ExecutorResult{
					Executor: decision.Next,
					Response: connectionFailureResponse,
				})
				done = true
				break
			}
			return "", err
		}

		results = append(results, ExecutorResult{Executor: decision.Next, Response: response})

		o.emit(Event{
			Type: EventAgentComplete, TurnID: turnID, Iteration: iteration,
			Executor: decision.Next, Preview: previewResponse(response),
		})
	}

	if !done {
		o.logger.Warn().
			Str("turn_id", turnID).
			Int("max_iterations", o.maxIterations).
			Msg("Max iterations reached")
	}

	final := Aggregate(results)
	o.history.Append(query, final)

	return final, nil
}

func (o *Orchestrator) emit(event Event) {
	if o.observer != nil {
		o.observer(event)
	}
}
