package orchestrator

import (
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/executor"
)

// EventType identifies a supervisor loop event.
type EventType string

const (
	// EventRouting fires once per query with the initial decision.
	EventRouting EventType = "routing"
	// EventHandoff fires before each executor dispatch.
	EventHandoff EventType = "handoff"
	// EventAgentComplete fires after an executor returns.
	EventAgentComplete EventType = "agent_complete"
	// EventCompletion fires when the router declares the query done.
	EventCompletion EventType = "completion"
)

// agentCompletePreview caps the response preview carried on
// agent_complete events.
const agentCompletePreview = 100

// Event describes one supervisor loop transition. Fields are populated
// per type; zero values mean not applicable.
type Event struct {
	Type      EventType
	TurnID    string
	Iteration int
	Query     string
	Decision  *Decision
	From      executor.ID
	To        executor.ID
	Reason    string
	Executor  executor.ID
	Preview   string
	Results   []ExecutorResult
}

// Observer receives supervisor loop events. Observers must not block;
// the loop calls them inline.
type Observer func(Event)

func newTurnID() string {
	return gonanoid.Must(12)
}

func previewResponse(response string) string {
	if len(response) > agentCompletePreview {
		return truncate(response, agentCompletePreview) + "..."
	}
	return response
}
