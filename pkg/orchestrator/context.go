package orchestrator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Preview sizes for assembled context. Previews always end in "..." to
// signal truncation to the model, even when the text was shorter.
const (
	decisionAssistantPreview = 200
	decisionResultPreview    = 300
	dispatchHistoryPreview   = 300
	dispatchResultPreview    = 500
)

// truncate cuts s to at most n bytes, backing up to the nearest rune
// boundary so a multi-byte character is never split.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func preview(s string, n int) string {
	return truncate(s, n) + "..."
}

// decisionContext assembles the router's input: the query followed by
// recent conversation context and prior executor results, when present.
func decisionContext(query string, history []Turn, results []ExecutorResult) string {
	var parts []string

	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, turn := range history {
			lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", turn.User, preview(turn.Assistant, decisionAssistantPreview)))
		}
		parts = append(parts, "PREVIOUS CONVERSATION CONTEXT:\n"+strings.Join(lines, "\n"))
	}

	if len(results) > 0 {
		lines := make([]string, 0, len(results))
		for _, r := range results {
			lines = append(lines, fmt.Sprintf("Agent: %s\nResponse: %s", r.Executor, preview(r.Response, decisionResultPreview)))
		}
		parts = append(parts, "PREVIOUS AGENT RESULTS:\n"+strings.Join(lines, "\n"))
	}

	if len(parts) == 0 {
		return query
	}
	return query + "\n\n" + strings.Join(parts, "\n\n")
}

// loopQuery wraps the query with accumulated results so a follow-up
// executor continues where the previous one stopped.
func loopQuery(query string, results []ExecutorResult) string {
	if len(results) == 0 {
		return query
	}

	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Executor.AppName(), preview(r.Response, dispatchResultPreview)))
	}

	return fmt.Sprintf(
		"Previous agent results:\n%s\n\nOriginal user query: %s\n\nContinue processing based on previous results.",
		strings.Join(lines, "\n"), query,
	)
}

// dispatchContext appends conversation history to the executor's query
// so pronouns and references resolve against earlier turns.
func dispatchContext(query string, history []Turn) string {
	if len(history) == 0 {
		return query
	}

	var lines []string
	for _, turn := range history {
		if turn.User != "" {
			lines = append(lines, "Previous user message: "+turn.User)
		}
		if turn.Assistant != "" {
			lines = append(lines, "Previous assistant response: "+preview(turn.Assistant, dispatchHistoryPreview))
		}
	}
	if len(lines) == 0 {
		return query
	}

	return query +
		"\n\nCONVERSATION CONTEXT (for reference):\n" + strings.Join(lines, "\n") +
		"\n\nIMPORTANT: Use the conversation context to understand references (e.g., 'his tickets' refers to the customer mentioned earlier)."
}
