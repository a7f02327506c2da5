package client

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"lack-chat/errors"
)

func newTestRegistry(t *testing.T) (*ChannelConnectionRegistry, *int) {
	t.Helper()
	dials := 0
	registry := NewChannelConnectionRegistry(func(channel string) (*ClientChannelConnection, error) {
		dials++
		return NewClientChannelConnection(channel, newFakeConn(),
			logs.GetLoggerFromLevel(slog.LevelError)), nil
	})
	t.Cleanup(registry.CloseAll)
	return registry, &dials
}

func TestRegistry_Join_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry, dials := newTestRegistry(t)

	first, opened, err := registry.Join("general")
	req.NoError(err)
	req.True(opened)

	second, opened, err := registry.Join("general")
	req.NoError(err)
	req.False(opened)
	req.Same(first, second)
	req.Equal(1, *dials)
}

func TestRegistry_Select_Requires_Join(t *testing.T) {
	req := require.New(t)
	registry, _ := newTestRegistry(t)

	_, err := registry.Select("general")
	req.ErrorIs(err, errors.ErrNotJoined)

	_, _, err = registry.Join("general")
	req.NoError(err)
	conn, err := registry.Select("general")
	req.NoError(err)
	req.Equal("general", conn.Channel)

	selected, err := registry.Selected()
	req.NoError(err)
	req.Same(conn, selected)
}

func TestRegistry_Leave_Destroys_The_Connection(t *testing.T) {
	req := require.New(t)
	registry, dials := newTestRegistry(t)

	_, _, err := registry.Join("general")
	req.NoError(err)
	_, err = registry.Select("general")
	req.NoError(err)

	req.True(registry.Leave("general"))
	req.False(registry.Leave("general"))

	// Selection is gone with the connection
	_, err = registry.Selected()
	req.ErrorIs(err, errors.ErrNotJoined)

	// Joining again dials fresh
	_, opened, err := registry.Join("general")
	req.NoError(err)
	req.True(opened)
	req.Equal(2, *dials)
}

func TestRegistry_Channels_Are_Sorted(t *testing.T) {
	req := require.New(t)
	registry, _ := newTestRegistry(t)

	for _, name := range []string{"zulu", "alpha", "mike"} {
		_, _, err := registry.Join(name)
		req.NoError(err)
	}
	req.Equal([]string{"alpha", "mike", "zulu"}, registry.Channels())
}
