package client

import (
	"sort"
	"sync"

	"lack-chat/errors"
)

// Dialer opens a websocket scoped to one channel.
type Dialer func(channel string) (*ClientChannelConnection, error)

// ChannelConnectionRegistry keeps at most one live connection per channel
// and remembers which one the viewer currently talks to.
type ChannelConnectionRegistry struct {
	dial Dialer

	mu          sync.Mutex
	connections map[string]*ClientChannelConnection
	selected    string
}

func NewChannelConnectionRegistry(dial Dialer) *ChannelConnectionRegistry {
	return &ChannelConnectionRegistry{
		dial:        dial,
		connections: make(map[string]*ClientChannelConnection),
	}
}

// Join dials the channel scope unless a connection already exists, in which
// case it is returned untouched. The bool reports whether a new connection
// was opened.
func (r *ChannelConnectionRegistry) Join(channel string) (*ClientChannelConnection, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conn, ok := r.connections[channel]; ok {
		return conn, false, nil
	}
	conn, err := r.dial(channel)
	if err != nil {
		return nil, false, err
	}
	r.connections[channel] = conn
	return conn, true, nil
}

// Select makes the channel the active one. Selecting a channel that was
// never joined is a user mistake, not a dial trigger.
func (r *ChannelConnectionRegistry) Select(channel string) (*ClientChannelConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.connections[channel]
	if !ok {
		return nil, errors.ErrNotJoined
	}
	r.selected = channel
	return conn, nil
}

// Selected returns the active connection.
func (r *ChannelConnectionRegistry) Selected() (*ClientChannelConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.connections[r.selected]
	if !ok {
		return nil, errors.ErrNotJoined
	}
	return conn, nil
}

// Leave closes and forgets the channel's connection, reporting whether one
// existed at all.
func (r *ChannelConnectionRegistry) Leave(channel string) bool {
	r.mu.Lock()
	conn, ok := r.connections[channel]
	delete(r.connections, channel)
	if r.selected == channel {
		r.selected = ""
	}
	r.mu.Unlock()
	if ok {
		conn.Close()
	}
	return ok
}

// Channels lists the joined channel names, sorted for stable display.
func (r *ChannelConnectionRegistry) Channels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.connections))
	for name := range r.connections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CloseAll tears down every connection, for client shutdown.
func (r *ChannelConnectionRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, conn := range r.connections {
		conn.Close()
		delete(r.connections, name)
	}
	r.selected = ""
}
