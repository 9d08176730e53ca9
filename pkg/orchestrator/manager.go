package orchestrator

import (
	"context"
	"fmt"
	"sync"
)

// Factory builds a fresh orchestrator for one conversation thread.
type Factory func(threadID string) (*Orchestrator, error)

// Manager hands out one orchestrator per thread ID so concurrent
// conversations never share history or sessions.
type Manager struct {
	factory Factory
	threads map[string]*Orchestrator
	mu      sync.Mutex
}

// NewManager creates a manager around the given factory.
func NewManager(factory Factory) (*Manager, error) {
	if factory == nil {
		return nil, fmt.Errorf("orchestrator factory is required")
	}
	return &Manager{
		factory: factory,
		threads: make(map[string]*Orchestrator),
	}, nil
}

// Get returns the thread's orchestrator, creating it on first use.
func (m *Manager) Get(threadID string) (*Orchestrator, error) {
	if threadID == "" {
		threadID = "default"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if orch, ok := m.threads[threadID]; ok {
		return orch, nil
	}

	orch, err := m.factory(threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator for thread %s: %w", threadID, err)
	}
	m.threads[threadID] = orch

	return orch, nil
}

// Process routes one query through the thread's orchestrator. Like
// ProcessQuery it always returns text, converting setup failures to
// "Error: {message}".
func (m *Manager) Process(ctx context.Context, threadID, query string) string {
	orch, err := m.Get(threadID)
	if err != nil {
		return fmt.Sprintf("Error: %s", err.Error())
	}
	return orch.ProcessQuery(ctx, query)
}

// Reset discards a thread's orchestrator, dropping its history and
// sessions. The next query starts fresh.
func (m *Manager) Reset(threadID string) {
	if threadID == "" {
		threadID = "default"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.threads, threadID)
}
