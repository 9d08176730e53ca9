package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoExecutor(reply string) Executor {
	return Func(func(ctx context.Context, sessionID, userID, message string) ([]Event, error) {
		return []Event{{Text: reply, Final: true}}, nil
	})
}

func TestNewRegistry(t *testing.T) {
	t.Run("builds registry from bindings", func(t *testing.T) {
		reg, err := NewRegistry(map[ID]Executor{
			CustomerData: echoExecutor("a"),
			Support:      echoExecutor("b"),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, reg.Count())
		assert.True(t, reg.Known(CustomerData))
		assert.False(t, reg.Known(SQL))
	})

	t.Run("rejects empty bindings", func(t *testing.T) {
		_, err := NewRegistry(nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil handle", func(t *testing.T) {
		_, err := NewRegistry(map[ID]Executor{Support: nil})
		assert.Error(t, err)
	})
}

func TestRegistryIDs(t *testing.T) {
	reg, err := NewRegistry(map[ID]Executor{
		SQL:          echoExecutor("c"),
		CustomerData: echoExecutor("a"),
		Support:      echoExecutor("b"),
	})
	require.NoError(t, err)

	// Stable sorted order regardless of map iteration.
	assert.Equal(t, []ID{CustomerData, SQL, Support}, reg.IDs())
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{CustomerData, "Customer Data"},
		{Support, "Support"},
		{SQL, "Sql"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.id.DisplayName())
	}
}

func TestAppName(t *testing.T) {
	assert.Equal(t, "customer_data_agent", CustomerData.AppName())
	assert.Equal(t, "router_agent", Router.AppName())
}
