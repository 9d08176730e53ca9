package orchestrator

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/executor"
)

func TestHistory(t *testing.T) {
	t.Run("append and recent", func(t *testing.T) {
		h := NewHistory()
		h.Append("q1", "a1")
		h.Append("q2", "a2")

		recent := h.Recent(3)
		assert.Len(t, recent, 2)
		assert.Equal(t, "q1", recent[0].User)
		assert.Equal(t, "a2", recent[1].Assistant)
	})

	t.Run("caps at ten turns", func(t *testing.T) {
		h := NewHistory()
		for i := 0; i < 15; i++ {
			h.Append(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}

		assert.Equal(t, 10, h.Len())
		recent := h.Recent(10)
		assert.Equal(t, "q5", recent[0].User)
		assert.Equal(t, "q14", recent[9].User)
	})

	t.Run("recent of empty", func(t *testing.T) {
		h := NewHistory()
		assert.Nil(t, h.Recent(3))
	})

	t.Run("clear", func(t *testing.T) {
		h := NewHistory()
		h.Append("q", "a")
		h.Clear()
		assert.Zero(t, h.Len())
	})
}

func TestDecisionContext(t *testing.T) {
	t.Run("bare query", func(t *testing.T) {
		assert.Equal(t, "Get customer 5", decisionContext("Get customer 5", nil, nil))
	})

	t.Run("with history and results", func(t *testing.T) {
		history := []Turn{{User: "hello", Assistant: "hi there"}}
		results := []ExecutorResult{{Executor: executor.CustomerData, Response: "Customer 5 is Alice"}}

		out := decisionContext("and their tickets?", history, results)
		assert.Contains(t, out, "PREVIOUS CONVERSATION CONTEXT:")
		assert.Contains(t, out, "User: hello")
		assert.Contains(t, out, "Assistant: hi there...")
		assert.Contains(t, out, "PREVIOUS AGENT RESULTS:")
		assert.Contains(t, out, "Agent: customer_data")
		assert.Contains(t, out, "Response: Customer 5 is Alice...")
	})

	t.Run("long previews truncated", func(t *testing.T) {
		history := []Turn{{User: "u", Assistant: strings.Repeat("x", 400)}}
		results := []ExecutorResult{{Executor: executor.SQL, Response: strings.Repeat("y", 400)}}

		out := decisionContext("q", history, results)
		assert.Contains(t, out, strings.Repeat("x", 200)+"...")
		assert.NotContains(t, out, strings.Repeat("x", 201))
		assert.Contains(t, out, strings.Repeat("y", 300)+"...")
		assert.NotContains(t, out, strings.Repeat("y", 301))
	})
}

func TestPreviewRuneBoundary(t *testing.T) {
	t.Run("truncate backs up to a rune boundary", func(t *testing.T) {
		out := truncate(strings.Repeat("✓", 100), 200)
		assert.True(t, utf8.ValidString(out))
		assert.Equal(t, strings.Repeat("✓", 66), out)
	})

	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "ok", truncate("ok", 200))
	})

	t.Run("preview keeps valid UTF-8", func(t *testing.T) {
		out := preview(strings.Repeat("✓", 150), 200)
		assert.True(t, utf8.ValidString(out))
		assert.Equal(t, strings.Repeat("✓", 66)+"...", out)
	})

	t.Run("agent complete preview keeps valid UTF-8", func(t *testing.T) {
		out := previewResponse(strings.Repeat("✓", 50))
		assert.True(t, utf8.ValidString(out))
		assert.Equal(t, strings.Repeat("✓", 33)+"...", out)
	})
}

func TestLoopQuery(t *testing.T) {
	t.Run("no results passes through", func(t *testing.T) {
		assert.Equal(t, "q", loopQuery("q", nil))
	})

	t.Run("results listed with app names", func(t *testing.T) {
		out := loopQuery("Get customer 5 and their tickets", []ExecutorResult{
			{Executor: executor.CustomerData, Response: "Customer 5 is Alice"},
		})
		assert.Contains(t, out, "Previous agent results:")
		assert.Contains(t, out, "- customer_data_agent: Customer 5 is Alice...")
		assert.Contains(t, out, "Original user query: Get customer 5 and their tickets")
		assert.Contains(t, out, "Continue processing based on previous results.")
	})

	t.Run("result preview capped at 500", func(t *testing.T) {
		out := loopQuery("q", []ExecutorResult{
			{Executor: executor.SQL, Response: strings.Repeat("z", 600)},
		})
		assert.Contains(t, out, strings.Repeat("z", 500)+"...")
		assert.NotContains(t, out, strings.Repeat("z", 501))
	})
}

func TestDispatchContext(t *testing.T) {
	t.Run("no history passes through", func(t *testing.T) {
		assert.Equal(t, "q", dispatchContext("q", nil))
	})

	t.Run("history appended with reference note", func(t *testing.T) {
		out := dispatchContext("his tickets", []Turn{{User: "Get customer 5", Assistant: "Alice"}})
		assert.Contains(t, out, "CONVERSATION CONTEXT (for reference):")
		assert.Contains(t, out, "Previous user message: Get customer 5")
		assert.Contains(t, out, "Previous assistant response: Alice...")
		assert.Contains(t, out, "IMPORTANT: Use the conversation context")
	})
}

func TestAggregate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", Aggregate(nil))
	})

	t.Run("single result verbatim", func(t *testing.T) {
		out := Aggregate([]ExecutorResult{{Executor: executor.SQL, Response: "42 rows"}})
		assert.Equal(t, "42 rows", out)
	})

	t.Run("multiple results labeled", func(t *testing.T) {
		out := Aggregate([]ExecutorResult{
			{Executor: executor.CustomerData, Response: "Alice"},
			{Executor: executor.Support, Response: "2 tickets"},
			{Executor: executor.SQL, Response: "done"},
		})
		assert.Equal(t, "Customer Data Agent:\nAlice\n\nSupport Agent:\n2 tickets\n\nSql Agent:\ndone", out)
	})
}
