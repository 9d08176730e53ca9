package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(Config{
		Path:   filepath.Join(t.TempDir(), "support.db"),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestOpen(t *testing.T) {
	t.Run("creates schema", func(t *testing.T) {
		s := testStore(t)

		customers, err := s.ListCustomers("", 0)
		require.NoError(t, err)
		assert.Empty(t, customers)
	})

	t.Run("requires path", func(t *testing.T) {
		_, err := Open(Config{Logger: zerolog.Nop()})
		assert.Error(t, err)
	})
}

func TestSeed(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Seed())
	customers, err := s.ListCustomers("", 0)
	require.NoError(t, err)
	assert.Len(t, customers, 3)

	// Seeding twice must not duplicate rows.
	require.NoError(t, s.Seed())
	customers, err = s.ListCustomers("", 0)
	require.NoError(t, err)
	assert.Len(t, customers, 3)
}

func TestCustomers(t *testing.T) {
	t.Run("add and get", func(t *testing.T) {
		s := testStore(t)

		added, err := s.AddCustomer("Dana Cole", "dana@example.com", "555-0104", "")
		require.NoError(t, err)
		assert.Equal(t, "active", added.Status)

		got, err := s.GetCustomer(added.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dana Cole", got.Name)
		assert.Equal(t, "dana@example.com", got.Email)
	})

	t.Run("get missing customer", func(t *testing.T) {
		s := testStore(t)

		_, err := s.GetCustomer(999)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "999")
	})

	t.Run("not found detected through wrapping", func(t *testing.T) {
		s := testStore(t)

		_, err := s.GetCustomer(999)
		require.Error(t, err)
		assert.True(t, IsNotFound(fmt.Errorf("tool failed: %w", err)))
	})

	t.Run("list filters by status and limit", func(t *testing.T) {
		s := testStore(t)
		require.NoError(t, s.Seed())

		active, err := s.ListCustomers("active", 0)
		require.NoError(t, err)
		assert.Len(t, active, 2)

		limited, err := s.ListCustomers("", 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
		// Ordered by name: Alice first.
		assert.Equal(t, "Alice Williams", limited[0].Name)
	})

	t.Run("update changes only provided fields", func(t *testing.T) {
		s := testStore(t)
		added, err := s.AddCustomer("Eve Park", "eve@example.com", "", "")
		require.NoError(t, err)

		updated, err := s.UpdateCustomer(added.ID, "", "", "", "disabled")
		require.NoError(t, err)
		assert.Equal(t, "disabled", updated.Status)
		assert.Equal(t, "Eve Park", updated.Name)
	})

	t.Run("update with no fields fails", func(t *testing.T) {
		s := testStore(t)
		added, err := s.AddCustomer("Finn Hale", "", "", "")
		require.NoError(t, err)

		_, err = s.UpdateCustomer(added.ID, "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("update missing customer fails", func(t *testing.T) {
		s := testStore(t)

		_, err := s.UpdateCustomer(42, "New Name", "", "", "")
		assert.True(t, IsNotFound(err))
	})

	t.Run("add requires name", func(t *testing.T) {
		s := testStore(t)

		_, err := s.AddCustomer("  ", "", "", "")
		assert.Error(t, err)
	})
}

func TestTickets(t *testing.T) {
	t.Run("create and history", func(t *testing.T) {
		s := testStore(t)
		c, err := s.AddCustomer("Gail Moss", "", "", "")
		require.NoError(t, err)

		first, err := s.CreateTicket(c.ID, "Cannot login", "high")
		require.NoError(t, err)
		assert.Equal(t, "high", first.Priority)
		assert.Equal(t, "open", first.Status)

		_, err = s.CreateTicket(c.ID, "Slow dashboard", "medium")
		require.NoError(t, err)

		history, err := s.CustomerHistory(c.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "Cannot login", history[0].Issue)
	})

	t.Run("invalid priority defaults to medium", func(t *testing.T) {
		s := testStore(t)
		c, err := s.AddCustomer("Hank Ito", "", "", "")
		require.NoError(t, err)

		ticket, err := s.CreateTicket(c.ID, "Question about invoices", "urgent")
		require.NoError(t, err)
		assert.Equal(t, "medium", ticket.Priority)
	})

	t.Run("rejects unknown customer", func(t *testing.T) {
		s := testStore(t)

		_, err := s.CreateTicket(12345, "Ghost issue", "low")
		assert.True(t, IsNotFound(err))
	})

	t.Run("history for unknown customer is empty", func(t *testing.T) {
		s := testStore(t)

		history, err := s.CustomerHistory(777)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestQuery(t *testing.T) {
	t.Run("returns rows as maps", func(t *testing.T) {
		s := testStore(t)
		require.NoError(t, s.Seed())

		rows, err := s.Query("SELECT name, status FROM customers WHERE status = 'active' ORDER BY name")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Alice Williams", rows[0]["name"])
		assert.Equal(t, "active", rows[0]["status"])
	})

	t.Run("aggregate query", func(t *testing.T) {
		s := testStore(t)
		require.NoError(t, s.Seed())

		rows, err := s.Query("SELECT COUNT(*) AS n FROM customers")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.EqualValues(t, 3, rows[0]["n"])
	})

	t.Run("reports execution errors", func(t *testing.T) {
		s := testStore(t)

		_, err := s.Query("SELECT * FROM no_such_table")
		assert.Error(t, err)
	})
}
