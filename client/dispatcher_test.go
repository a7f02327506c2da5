package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"lack-chat/domain"
	"lack-chat/errors"
	"lack-chat/transport"
)

// autoRespond plays a compliant server: every request gets a success ack
// with a plausible payload. Request event names are recorded on the fixture
// so tests can assert which operations actually hit the wire.
func (f *dispatcherFixture) autoRespond(fake *fakeConn, channel string) {
	go func() {
		for {
			select {
			case data := <-fake.out:
				var request transport.Frame
				if json.Unmarshal(data, &request) != nil {
					continue
				}
				f.record(request.Event)
				var payload any
				switch request.Event {
				case transport.AddUserEvent:
					payload = domain.Channel{ID: "ch-" + domain.ChannelID(channel), Name: channel, IsPublic: true}
				case transport.RemoveUserEvent:
					payload = map[string]bool{"deleted": false}
				case transport.GetMessagesEvent:
					payload = transport.MessagePage{}
				case transport.AddMessageEvent:
					var body transport.AddMessageRequest
					_ = json.Unmarshal(request.Payload, &body)
					payload = domain.Message{
						Channel: channel,
						Author:  domain.User{ID: "user-alice", Nickname: "alice"},
						Content: body.Content,
					}
				}
				ack, err := transport.Ack(request.ID, payload)
				if err != nil {
					continue
				}
				response, err := json.Marshal(ack)
				if err != nil {
					continue
				}
				fake.in <- response
			case <-fake.closed:
				return
			}
		}
	}()
}

type dispatcherFixture struct {
	dispatcher *CommandDispatcher
	registry   *ChannelConnectionRegistry
	store      *Store
	confirmed  bool

	mu   sync.Mutex
	sent []string
}

func (f *dispatcherFixture) record(event string) {
	f.mu.Lock()
	f.sent = append(f.sent, event)
	f.mu.Unlock()
}

func (f *dispatcherFixture) sentEvents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelError)
	f := &dispatcherFixture{confirmed: true}

	f.registry = NewChannelConnectionRegistry(func(channel string) (*ClientChannelConnection, error) {
		fake := newFakeConn()
		f.autoRespond(fake, channel)
		return NewClientChannelConnection(channel, fake, log), nil
	})
	t.Cleanup(f.registry.CloseAll)

	globalFake := newFakeConn()
	f.autoRespond(globalFake, "")
	global := NewClientChannelConnection("", globalFake, log)
	t.Cleanup(global.Close)

	viewer := domain.User{ID: "user-alice", Nickname: "alice"}
	f.store = NewStore(viewer, StoreOptions{
		OnLocalLeave: func(channel string) { f.registry.Leave(channel) },
	}, log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = f.store.Run(ctx) }()

	f.dispatcher = NewCommandDispatcher(f.registry, f.store, global,
		func(string) bool { return f.confirmed }, time.Second, log)
	return f
}

func TestDispatcher_Join_Selects_And_Hydrates(t *testing.T) {
	req := require.New(t)
	f := newDispatcherFixture(t)

	feedback, err := f.dispatcher.Dispatch(context.Background(), "/join general")
	req.NoError(err)
	req.Equal("joined #general", feedback)

	conn, err := f.registry.Selected()
	req.NoError(err)
	req.Equal("general", conn.Channel)
	req.Contains(f.store.Snapshot().Channels, "general")
}

func TestDispatcher_Plain_Line_Requires_A_Selected_Channel(t *testing.T) {
	req := require.New(t)
	f := newDispatcherFixture(t)

	_, err := f.dispatcher.Dispatch(context.Background(), "hello?")
	req.ErrorIs(err, errors.ErrNotJoined)
}

func TestDispatcher_Message_Is_Echoed_Locally(t *testing.T) {
	req := require.New(t)
	f := newDispatcherFixture(t)

	_, err := f.dispatcher.Dispatch(context.Background(), "/join general")
	req.NoError(err)
	_, err = f.dispatcher.Dispatch(context.Background(), "hello everyone")
	req.NoError(err)

	// The echo goes through the store's dispatch queue
	req.Eventually(func() bool {
		messages := f.store.Snapshot().Channels["general"].Messages
		return len(messages) == 1 && messages[0].Content == "hello everyone"
	}, time.Second, 10*time.Millisecond)
}

func TestDispatcher_Quit_Aborts_Without_Confirmation(t *testing.T) {
	req := require.New(t)
	f := newDispatcherFixture(t)
	f.confirmed = false

	_, err := f.dispatcher.Dispatch(context.Background(), "/join general")
	req.NoError(err)
	_, err = f.dispatcher.Dispatch(context.Background(), "/quit")
	req.ErrorIs(err, errors.ErrActionAborted)

	// Still joined and selected
	_, err = f.registry.Selected()
	req.NoError(err)
}

func TestDispatcher_Quit_Deletes_The_Channel_For_Everyone(t *testing.T) {
	req := require.New(t)
	f := newDispatcherFixture(t)

	_, err := f.dispatcher.Dispatch(context.Background(), "/join general")
	req.NoError(err)
	feedback, err := f.dispatcher.Dispatch(context.Background(), "/quit")
	req.NoError(err)
	req.Equal("deleted #general", feedback)
	req.Empty(f.registry.Channels())

	// Quit is the destructive variant: deleteChannel goes out, removeUser never does
	req.Contains(f.sentEvents(), transport.DeleteChannelEvent)
	req.NotContains(f.sentEvents(), transport.RemoveUserEvent)
}

func TestDispatcher_Cancel_Leaves_The_Channel(t *testing.T) {
	req := require.New(t)
	f := newDispatcherFixture(t)

	_, err := f.dispatcher.Dispatch(context.Background(), "/join general")
	req.NoError(err)
	feedback, err := f.dispatcher.Dispatch(context.Background(), "/cancel")
	req.NoError(err)
	req.Equal("left #general", feedback)
	req.Empty(f.registry.Channels())

	req.Contains(f.sentEvents(), transport.RemoveUserEvent)
	req.NotContains(f.sentEvents(), transport.DeleteChannelEvent)
}

func TestDispatcher_Unknown_Command_Is_A_Validation_Error(t *testing.T) {
	req := require.New(t)
	f := newDispatcherFixture(t)

	_, err := f.dispatcher.Dispatch(context.Background(), "/teleport home")
	req.ErrorIs(err, errors.ErrUnknownCommand)
}

// Store dispatch runs asynchronously, flush before asserting on it.
func TestDispatcher_List_Shows_Members_Of_The_Selected_Channel(t *testing.T) {
	req := require.New(t)
	f := newDispatcherFixture(t)

	_, err := f.dispatcher.Dispatch(context.Background(), "/join general")
	req.NoError(err)

	rendered, err := f.dispatcher.Dispatch(context.Background(), "/list")
	req.NoError(err)
	req.Contains(rendered, "alice")
}
