package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore rejects every operation.
type failingStore struct{}

func (failingStore) Create(ctx context.Context, appName, userID, sessionID string) (*Handle, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) Get(ctx context.Context, appName, userID, sessionID string) (*Handle, error) {
	return nil, errors.New("store unavailable")
}

func TestDeriveID(t *testing.T) {
	t.Run("strips agent suffix", func(t *testing.T) {
		assert.Equal(t, "thread1_customer_data", DeriveID("thread1", "customer_data_agent"))
	})

	t.Run("leaves bare names alone", func(t *testing.T) {
		assert.Equal(t, "thread1_sql", DeriveID("thread1", "sql"))
	})

	t.Run("deterministic", func(t *testing.T) {
		a := DeriveID("base", "router_agent")
		b := DeriveID("base", "router_agent")
		assert.Equal(t, a, b)
	})
}

func TestRegistryEnsure(t *testing.T) {
	ctx := context.Background()

	t.Run("creates session on first call", func(t *testing.T) {
		store := NewInMemoryStore()
		reg := NewRegistry(store, "session_456", "user_123", zerolog.Nop())

		handle := reg.Ensure(ctx, "support_agent")
		require.NotNil(t, handle)
		assert.Equal(t, "support_agent", handle.AppName)
		assert.Equal(t, "user_123", handle.UserID)
		assert.Equal(t, "session_456_support", handle.SessionID)
		assert.Equal(t, 1, store.Count())
	})

	t.Run("repeated calls return the same identifier", func(t *testing.T) {
		store := NewInMemoryStore()
		reg := NewRegistry(store, "s", "u", zerolog.Nop())

		first := reg.Ensure(ctx, "customer_data_agent")
		second := reg.Ensure(ctx, "customer_data_agent")
		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, first.SessionID, second.SessionID)
		assert.Equal(t, 1, store.Count())
	})

	t.Run("falls back to fetch when session exists", func(t *testing.T) {
		store := NewInMemoryStore()
		_, err := store.Create(ctx, "sql_agent", "u", "s_sql")
		require.NoError(t, err)

		reg := NewRegistry(store, "s", "u", zerolog.Nop())
		handle := reg.Ensure(ctx, "sql_agent")
		require.NotNil(t, handle)
		assert.Equal(t, "s_sql", handle.SessionID)
	})

	t.Run("swallows store failure and returns nil", func(t *testing.T) {
		reg := NewRegistry(failingStore{}, "s", "u", zerolog.Nop())
		assert.Nil(t, reg.Ensure(ctx, "support_agent"))
	})
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create then get", func(t *testing.T) {
		store := NewInMemoryStore()
		created, err := store.Create(ctx, "app", "u", "sid")
		require.NoError(t, err)

		got, err := store.Get(ctx, "app", "u", "sid")
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("duplicate create fails", func(t *testing.T) {
		store := NewInMemoryStore()
		_, err := store.Create(ctx, "app", "u", "sid")
		require.NoError(t, err)

		_, err = store.Create(ctx, "app", "u", "sid")
		assert.ErrorIs(t, err, ErrSessionExists)
	})

	t.Run("get unknown session fails", func(t *testing.T) {
		store := NewInMemoryStore()
		_, err := store.Get(ctx, "app", "u", "missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}
