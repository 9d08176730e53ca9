// Package agent runs LLM-backed executors against the tool registry.
package agent

import "strings"

// Message represents one message in an executor conversation.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// TokenUsage tracks token consumption per call.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ToolSpec declares one tool to the model.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Request contains the parameters for one model call.
type Request struct {
	Model        string
	Messages     []Message
	Tools        []ToolSpec
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Response contains the model's reply.
type Response struct {
	Content   string
	ToolCalls []ToolCall
	Usage     *TokenUsage
}

// Profile holds the credentials and provider choice for model calls.
type Profile struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// IsRetryableError reports whether a provider error is transient.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	for _, marker := range []string{
		"ECONNRESET", "ETIMEDOUT",
		"429", "rate limit",
		"500", "502", "503", "504",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
