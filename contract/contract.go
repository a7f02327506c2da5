//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"lack-chat/domain/event"
)

// GlobalRoom is the broadcast scope every authenticated connection joins.
const GlobalRoom = "global"

// ChannelRoom names the broadcast scope of a channel.
func ChannelRoom(name string) string {
	return "channels/" + name
}

// Broadcast addresses one event to a room.
// Except excludes the sender's own session (socket-style broadcast);
// Only restricts delivery to a single session (direct emit).
// With both empty the event reaches the whole namespace.
type Broadcast struct {
	Room   string
	Except string
	Only   string
	Event  event.Event
}

// EventSink receives events destined for one connected session.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// SessionSink pairs a sink with the session that owns it, so fanout can
// honor Except/Only addressing.
type SessionSink struct {
	SessionID string
	Sink      EventSink
}

type IRoomRegistry interface {
	Subscribe(sessionID, room string, sink EventSink)
	Unsubscribe(sessionID, room string)
	SinksFor(room string) []SessionSink
}

// IBroadcaster is the single path services use to reach connected clients.
// Delivery order within one room follows the order broadcasts were issued.
type IBroadcaster interface {
	Broadcast(b Broadcast)
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
