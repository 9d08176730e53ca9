package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/executor"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/session"
)

// Dispatcher runs one executor for one supervisor iteration.
type Dispatcher struct {
	registry *executor.Registry
	sessions *session.Registry
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given executors.
func NewDispatcher(registry *executor.Registry, sessions *session.Registry, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, sessions: sessions, logger: logger}
}

// Dispatch runs the executor against the query plus accumulated
// context and returns its text response. Connectivity failures come
// back as *ConnectionError so the loop can fail closed.
func (d *Dispatcher) Dispatch(ctx context.Context, id executor.ID, query string, history []Turn, results []ExecutorResult) (string, error) {
	exec, ok := d.registry.Get(id)
	if !ok {
		return "", fmt.Errorf("unknown executor: %s", id)
	}

	appName := id.AppName()
	d.sessions.Ensure(ctx, appName)

	fullQuery := dispatchContext(loopQuery(query, results), history)

	events, err := exec.Run(ctx, d.sessions.SessionID(appName), d.sessions.UserID(), fullQuery)
	if err != nil {
		if isConnectionFailure(err) {
			return "", &ConnectionError{Executor: id, Err: err}
		}
		return "", fmt.Errorf("executor %s failed: %w", id, err)
	}

	return extractText(events), nil
}

// extractText reduces an event stream to one response string. The
// first final event wins; without one, fragments are joined with a
// single space.
func extractText(events []executor.Event) string {
	var fragments []string

	for _, ev := range events {
		if ev.Text == "" {
			continue
		}
		if ev.Final {
			return ev.Text
		}
		fragments = append(fragments, ev.Text)
	}

	if len(fragments) == 0 {
		return "No response received from agent."
	}
	return strings.Join(fragments, " ")
}
