// Package session manages per-executor session identity. Session IDs
// are derived deterministically from the conversation's base session ID
// so that create-or-fetch against the backing store is idempotent.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionExists is returned by Store.Create when the session is
// already present.
var ErrSessionExists = errors.New("session already exists")

// ErrSessionNotFound is returned by Store.Get for unknown sessions.
var ErrSessionNotFound = errors.New("session not found")

// Handle identifies one executor-scoped session. UID is assigned by
// the store and is unique per created session, unlike the
// deterministically derived SessionID.
type Handle struct {
	UID       string    `json:"uid"`
	AppName   string    `json:"app_name"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the external session store the registry creates sessions
// against. Implementations must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, appName, userID, sessionID string) (*Handle, error)
	Get(ctx context.Context, appName, userID, sessionID string) (*Handle, error)
}

// InMemoryStore is a Store backed by a process-local map.
type InMemoryStore struct {
	sessions map[string]*Handle
	mu       sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*Handle),
	}
}

func storeKey(appName, userID, sessionID string) string {
	return fmt.Sprintf("%s/%s/%s", appName, userID, sessionID)
}

// Create registers a new session. Returns ErrSessionExists if a session
// with the same identity is already present.
func (s *InMemoryStore) Create(ctx context.Context, appName, userID, sessionID string) (*Handle, error) {
	if appName == "" || userID == "" || sessionID == "" {
		return nil, fmt.Errorf("app name, user ID and session ID are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(appName, userID, sessionID)
	if _, exists := s.sessions[key]; exists {
		return nil, ErrSessionExists
	}

	handle := &Handle{
		UID:       uuid.NewString(),
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
		CreatedAt: time.Now(),
	}
	s.sessions[key] = handle

	return handle, nil
}

// Get fetches an existing session.
func (s *InMemoryStore) Get(ctx context.Context, appName, userID, sessionID string) (*Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handle, exists := s.sessions[storeKey(appName, userID, sessionID)]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return handle, nil
}

// Count returns the number of stored sessions.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
