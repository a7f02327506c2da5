// Package runtime owns the broadcast plumbing: room membership of live
// sessions, the ordered broadcast queue, and the workers draining it.
// It contains no business rules.
package runtime

import (
	"sync"

	"lack-chat/contract"
)

// Rooms maps broadcast scopes to the sessions subscribed to them.
// A session subscribes to exactly one room: the global scope for the
// presence connection, "channels/{name}" for each channel connection.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]map[string]contract.EventSink
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]map[string]contract.EventSink)}
}

// Subscribe registers a session's sink under a room.
// If the room does not yet exist it is initialized on the fly.
func (r *Rooms) Subscribe(sessionID, room string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(map[string]contract.EventSink)
	}
	r.rooms[room][sessionID] = sink
}

// Unsubscribe removes a session from its room. Empty rooms are deleted
// entirely to prevent memory leaks over time.
func (r *Rooms) Unsubscribe(sessionID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// SinksFor snapshots the sessions currently subscribed to a room.
// Returns nil if the room doesn't exist or has no members.
func (r *Rooms) SinksFor(room string) []contract.SessionSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[room]
	if !ok {
		return nil
	}
	sinks := make([]contract.SessionSink, 0, len(members))
	for sessionID, sink := range members {
		sinks = append(sinks, contract.SessionSink{SessionID: sessionID, Sink: sink})
	}
	return sinks
}
