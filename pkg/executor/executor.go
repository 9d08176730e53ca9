// Package executor defines the capability contract between the
// supervisor loop and the specialized query-answering executors.
package executor

import (
	"context"
	"strings"
)

// ID identifies a registered executor. The set of valid IDs is closed:
// executors are bound at construction time and never added afterwards.
type ID string

const (
	// Router is the supervising decision-maker. It is never dispatched
	// as a worker; the orchestrator consults it for routing decisions.
	Router ID = "router"

	// CustomerData handles customer record retrieval and management.
	CustomerData ID = "customer_data"

	// Support handles ticket creation and ticket history.
	Support ID = "support"

	// SQL is the fallback executor for ad-hoc SQL queries.
	SQL ID = "sql"
)

// AppName returns the session application name for an executor,
// e.g. "customer_data_agent".
func (id ID) AppName() string {
	return string(id) + "_agent"
}

// DisplayName renders an ID for user-facing output: underscores become
// spaces and each word is title-cased ("customer_data" -> "Customer Data").
func (id ID) DisplayName() string {
	words := strings.Split(string(id), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Event is one element of an executor's response stream. An executor
// emits zero or more text-bearing events with at most one final one.
type Event struct {
	Text  string
	Final bool
}

// Executor is an independently invokable query-answering capability.
// The orchestrator does not care whether the implementation is a hosted
// language model, a rule engine, or a test double; it only consumes the
// returned event stream.
type Executor interface {
	Run(ctx context.Context, sessionID, userID, message string) ([]Event, error)
}

// Func adapts a plain function to the Executor interface.
type Func func(ctx context.Context, sessionID, userID, message string) ([]Event, error)

// Run implements Executor.
func (f Func) Run(ctx context.Context, sessionID, userID, message string) ([]Event, error) {
	return f(ctx, sessionID, userID, message)
}
