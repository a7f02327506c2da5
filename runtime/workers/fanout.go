package workers

import (
	"context"
	"log/slog"
	"time"

	"lack-chat/contract"
)

// EventFanout delivers broadcasts to the sessions of the addressed room.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. EventFanout is not a message broker. A single
// instance must drain the queue: per-room ordering relies on broadcasts
// being handled one at a time, in the order they were issued.
type EventFanout struct {
	log         *slog.Logger
	registry    contract.IRoomRegistry
	broadcasts  <-chan contract.Broadcast
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRoomRegistry,
	broadcasts <-chan contract.Broadcast, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:         log,
		registry:    registry,
		broadcasts:  broadcasts,
		sinkTimeout: sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case b := <-w.broadcasts:
			w.Fanout(ctx, b)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

// Fanout resolves the room's sessions and applies Except/Only addressing.
// A slow sink only loses its own event: delivery is bounded by sinkTimeout
// and failures are logged, never propagated.
func (w *EventFanout) Fanout(ctx context.Context, b contract.Broadcast) {
	for _, session := range w.registry.SinksFor(b.Room) {
		if b.Only != "" && session.SessionID != b.Only {
			continue
		}
		if b.Except != "" && session.SessionID == b.Except {
			continue
		}
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := session.Sink.Consume(sinkCtx, b.Event); err != nil {
			w.log.Warn("Sink failed to consume event",
				"session_id", session.SessionID,
				"room", b.Room,
				"event", b.Event.Name(),
				"error", err)
		}
		cancel()
	}
}
