package agent

import (
	"context"
	"fmt"
)

// Provider is an interface for LLM API providers.
type Provider interface {
	// Call makes one model API call.
	Call(ctx context.Context, request Request) (*Response, error)

	// Name returns the provider name.
	Name() string
}

// NewProvider creates a provider from a profile.
func NewProvider(profile Profile) (Provider, error) {
	switch profile.Provider {
	case "anthropic":
		return NewAnthropicProvider(profile.APIKey), nil
	case "openai":
		return NewOpenAIProvider(profile.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", profile.Provider)
	}
}
