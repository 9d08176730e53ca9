package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// DeriveID computes the session identifier for an executor app name.
// The "_agent" suffix is stripped so "customer_data_agent" and the
// executor id "customer_data" derive the same session. The derivation
// is deterministic: repeated calls always yield the same identifier.
func DeriveID(baseSessionID, appName string) string {
	clean := strings.TrimSuffix(appName, "_agent")
	return baseSessionID + "_" + clean
}

// Registry derives and caches one session handle per executor app name
// for a single conversation. Session creation is best-effort: Ensure
// never returns an error, only a possibly-nil handle.
//
// A Registry is owned by one orchestrator instance and is not safe for
// concurrent Ensure calls; the supervisor loop is single-threaded.
type Registry struct {
	store         Store
	baseSessionID string
	userID        string
	handles       map[string]*Handle
	logger        zerolog.Logger
}

// NewRegistry creates a session registry bound to one conversation.
func NewRegistry(store Store, baseSessionID, userID string, logger zerolog.Logger) *Registry {
	return &Registry{
		store:         store,
		baseSessionID: baseSessionID,
		userID:        userID,
		handles:       make(map[string]*Handle),
		logger:        logger,
	}
}

// SessionID returns the derived session identifier for an app name.
func (r *Registry) SessionID(appName string) string {
	return DeriveID(r.baseSessionID, appName)
}

// UserID returns the conversation's user identifier.
func (r *Registry) UserID() string {
	return r.userID
}

// Ensure creates the session for an executor if it does not exist and
// returns its handle. On create failure it falls back to fetching; if
// both fail the failure is logged and a nil handle is returned. The
// executor may still create the session lazily on first use, so
// callers must tolerate nil.
func (r *Registry) Ensure(ctx context.Context, appName string) *Handle {
	sessionID := r.SessionID(appName)

	if handle, ok := r.handles[appName]; ok {
		return handle
	}

	handle, err := r.store.Create(ctx, appName, r.userID, sessionID)
	if err == nil {
		r.handles[appName] = handle
		return handle
	}

	handle, getErr := r.store.Get(ctx, appName, r.userID, sessionID)
	if getErr == nil {
		r.handles[appName] = handle
		return handle
	}

	r.logger.Warn().
		Str("app_name", appName).
		Str("session_id", sessionID).
		AnErr("create_error", err).
		AnErr("get_error", getErr).
		Msg("Session creation failed, continuing without handle")

	return nil
}
