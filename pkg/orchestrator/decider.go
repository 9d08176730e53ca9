package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/executor"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/session"
)

// Decider asks the router executor what to do next. It never returns
// an error: router failures degrade to a completion decision when
// results already exist, or to the emergency fallback otherwise.
type Decider struct {
	router   executor.Executor
	sessions *session.Registry
	parser   DecisionParser
	logger   zerolog.Logger
}

// NewDecider creates a decider backed by the router executor.
func NewDecider(router executor.Executor, sessions *session.Registry, parser DecisionParser, logger zerolog.Logger) *Decider {
	return &Decider{router: router, sessions: sessions, parser: parser, logger: logger}
}

// Decide runs the router over the query plus accumulated context and
// parses its verdict.
func (d *Decider) Decide(ctx context.Context, query string, history []Turn, results []ExecutorResult) Decision {
	appName := executor.Router.AppName()
	d.sessions.Ensure(ctx, appName)

	events, err := d.router.Run(ctx, d.sessions.SessionID(appName), d.sessions.UserID(), decisionContext(query, history, results))
	if err != nil {
		d.logger.Warn().Err(err).Msg("Router call failed")
		return d.fallback(results)
	}

	text := routerText(events)
	if text == "" {
		d.logger.Warn().Msg("Router returned no text")
		return d.fallback(results)
	}

	return d.parser.Parse(text)
}

// routerText mirrors dispatch extraction but keeps emptiness visible
// so the decider can tell silence from an answer.
func routerText(events []executor.Event) string {
	var joined string
	for _, ev := range events {
		if ev.Text == "" {
			continue
		}
		if ev.Final {
			return ev.Text
		}
		if joined != "" {
			joined += " "
		}
		joined += ev.Text
	}
	return joined
}

func (d *Decider) fallback(results []ExecutorResult) Decision {
	if len(results) > 0 {
		return Decision{Done: true, Reason: "Query answered by previous agent"}
	}
	return emergencyFallback()
}

// emergencyFallback routes to the default executor when the router is
// completely unavailable and nothing has run yet.
func emergencyFallback() Decision {
	return Decision{
		Next:   executor.CustomerData,
		Done:   false,
		Reason: "Emergency fallback: Router unavailable",
	}
}
