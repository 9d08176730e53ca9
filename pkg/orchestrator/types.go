// Package orchestrator implements the supervisor loop that routes user
// queries across specialized executors. The router executor decides
// which executor runs next; the orchestrator dispatches it, accumulates
// results, and aggregates them into one reply.
package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/executor"
)

// Decision is the router's verdict for one supervisor iteration. An
// empty Next means no further executor is wanted.
type Decision struct {
	Next   executor.ID `json:"next_agent"`
	Done   bool        `json:"done"`
	Reason string      `json:"reason"`
}

// ExecutorResult pairs an executor with the response it produced.
type ExecutorResult struct {
	Executor executor.ID `json:"agent"`
	Response string      `json:"response"`
}

// Turn is one completed user/assistant exchange.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ConnectionError marks a dispatch failure caused by backend
// connectivity rather than executor logic. The supervisor loop treats
// it as terminal for the current query.
type ConnectionError struct {
	Executor executor.ID
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: backend connection failed: %v", e.Executor, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err carries a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

var connectionMarkers = []string{"connection", "timeout", "failed to get tools"}

// isConnectionFailure classifies raw executor errors by message, the
// substrings matched case-insensitively.
func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range connectionMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
