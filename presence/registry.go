// Package presence derives aggregate online state from live connections.
//
// The registry holds a per-user set of connection ids in process memory and
// reports 0↔1 transitions of the set size. This is explicitly single-process
// state: sharding it across coordinating processes requires a shared broker
// and a distributed presence protocol, which this core does not provide.
package presence

import (
	"sort"
	"sync"

	"lack-chat/domain"
)

type connectionSet map[string]struct{}

// Registry tracks live connections per user identity.
// A user is online iff their connection set is non-empty.
type Registry struct {
	mu          sync.RWMutex
	connections map[domain.UserID]connectionSet
}

func NewRegistry() *Registry {
	return &Registry{connections: make(map[domain.UserID]connectionSet)}
}

// Connect registers a connection under the user and reports whether it is
// the user's first live connection (the 0→1 transition).
func (r *Registry) Connect(userID domain.UserID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.connections[userID]
	if !ok {
		set = make(connectionSet)
		r.connections[userID] = set
	}
	first := len(set) == 0
	set[connID] = struct{}{}
	return first
}

// Disconnect removes a connection and reports whether it was the user's
// last one (the 1→0 transition). Unknown connections report false.
func (r *Registry) Disconnect(userID domain.UserID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.connections[userID]
	if !ok {
		return false
	}
	if _, held := set[connID]; !held {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.connections, userID)
		return true
	}
	return false
}

// OnlineExcept snapshots every online user id except the given one,
// deduplicated by user even when a user holds several connections.
// The result is sorted to keep snapshots deterministic.
func (r *Registry) OnlineExcept(userID domain.UserID) []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var online []domain.UserID
	for id, set := range r.connections {
		if id == userID || len(set) == 0 {
			continue
		}
		online = append(online, id)
	}
	sort.Slice(online, func(i, j int) bool { return online[i] < online[j] })
	return online
}

// IsOnline reports whether the user holds at least one live connection.
func (r *Registry) IsOnline(userID domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections[userID]) > 0
}
