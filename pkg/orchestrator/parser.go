package orchestrator

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/executor"
)

// DecisionParser turns a raw router response into a Decision. Parsers
// never fail: unusable input degrades to a safe default.
type DecisionParser interface {
	Parse(response string) Decision
}

// jsonObjectPattern matches a JSON object with at most one level of
// nesting, enough for the decision payload even when the router wraps
// it in prose.
var jsonObjectPattern = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

var decisionSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"next_agent": map[string]any{"type": []string{"string", "null"}},
			"done":       map[string]any{"type": "boolean"},
			"reason":     map[string]any{"type": "string"},
		},
	}))
	if err != nil {
		panic(err)
	}
	return schema
}()

// heuristicScanOrder fixes which executor wins when a response names
// several of them. Earlier entries take precedence.
var heuristicScanOrder = []executor.ID{executor.CustomerData, executor.Support, executor.SQL}

// LayeredParser parses router responses in three layers: structured
// JSON first, keyword heuristics second, and a fixed default last.
type LayeredParser struct {
	registry *executor.Registry
	logger   zerolog.Logger
}

var _ DecisionParser = (*LayeredParser)(nil)

// NewLayeredParser creates a parser that validates executor names
// against the registry.
func NewLayeredParser(registry *executor.Registry, logger zerolog.Logger) *LayeredParser {
	return &LayeredParser{registry: registry, logger: logger}
}

// Parse extracts a Decision from a router response.
func (p *LayeredParser) Parse(response string) Decision {
	if decision, ok := p.parseStructured(response); ok {
		return decision
	}

	if decision, ok := p.parseHeuristic(response); ok {
		return decision
	}

	return Decision{
		Next:   executor.CustomerData,
		Done:   false,
		Reason: "Could not parse router decision",
	}
}

func (p *LayeredParser) parseStructured(response string) (Decision, bool) {
	raw := jsonObjectPattern.FindString(response)
	if raw == "" {
		return Decision{}, false
	}

	result, err := decisionSchema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil || !result.Valid() {
		p.logger.Warn().Str("payload", raw).Msg("Router decision failed schema validation")
		return Decision{}, false
	}

	var payload struct {
		NextAgent *string `json:"next_agent"`
		Done      bool    `json:"done"`
		Reason    string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		p.logger.Warn().Err(err).Msg("Router decision JSON parse error")
		return Decision{}, false
	}

	decision := Decision{Done: payload.Done, Reason: payload.Reason}
	if decision.Reason == "" {
		decision.Reason = "No reason provided"
	}

	if payload.NextAgent != nil && *payload.NextAgent != "" {
		next := executor.ID(*payload.NextAgent)
		if !p.dispatchable(next) {
			p.logger.Warn().Str("next_agent", *payload.NextAgent).Msg("Unknown executor in router decision, treating as done")
			decision.Done = true
		} else {
			decision.Next = next
		}
	}

	return decision, true
}

func (p *LayeredParser) parseHeuristic(response string) (Decision, bool) {
	lower := strings.ToLower(response)

	if strings.Contains(lower, "done") &&
		(strings.Contains(lower, "true") || strings.Contains(lower, "complete")) {
		return Decision{Done: true, Reason: "Parsed from text response"}, true
	}

	for _, id := range heuristicScanOrder {
		if !p.registry.Known(id) {
			continue
		}
		if strings.Contains(lower, string(id)) {
			return Decision{Next: id, Done: false, Reason: "Parsed from text response"}, true
		}
	}

	return Decision{}, false
}

func (p *LayeredParser) dispatchable(id executor.ID) bool {
	return id != executor.Router && p.registry.Known(id)
}
