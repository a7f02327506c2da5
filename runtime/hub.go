package runtime

import (
	"fmt"
	"log/slog"

	"lack-chat/contract"
)

// Hub is the single entry point for broadcasts. Services push into one
// buffered channel; the fanout worker drains it sequentially, which is what
// guarantees delivery order within a room.
type Hub struct {
	log        *slog.Logger
	broadcasts chan contract.Broadcast
}

func NewHub(log *slog.Logger, bufferSize int) *Hub {
	return &Hub{
		log:        log,
		broadcasts: make(chan contract.Broadcast, bufferSize),
	}
}

// Broadcast enqueues an event for delivery. A full queue drops the event
// rather than blocking the caller, matching best-effort fanout semantics.
func (h *Hub) Broadcast(b contract.Broadcast) {
	select {
	case h.broadcasts <- b:
	default:
		h.log.Warn(fmt.Sprintf("Broadcast queue full, dropping %s for room %s",
			b.Event.Name(), b.Room))
	}
}

// Queue exposes the ordered broadcast stream to the fanout worker.
func (h *Hub) Queue() <-chan contract.Broadcast {
	return h.broadcasts
}
