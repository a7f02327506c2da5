package client

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"lack-chat/domain"
	"lack-chat/transport"
)

func frameOf(t *testing.T, event string, payload any) transport.Frame {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return transport.Frame{Event: event, Payload: data}
}

type storeFixture struct {
	store         *Store
	notifications []Notification
	localLeaves   []string
}

func newStoreFixture(t *testing.T, mentionOnly bool) *storeFixture {
	t.Helper()
	f := &storeFixture{}
	viewer := domain.User{ID: "user-alice", Nickname: "alice"}
	f.store = NewStore(viewer, StoreOptions{
		MentionOnly:  mentionOnly,
		Notify:       func(n Notification) { f.notifications = append(f.notifications, n) },
		OnLocalLeave: func(channel string) { f.localLeaves = append(f.localLeaves, channel) },
	}, logs.GetLoggerFromLevel(slog.LevelError))
	return f
}

// apply bypasses the dispatch queue so assertions run synchronously.
func (f *storeFixture) apply(t *testing.T, scope string, frame transport.Frame) {
	t.Helper()
	f.store.apply(scopedFrame{scope: scope, frame: frame})
}

func TestStore_Message_Appends_And_Notifies(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, false)

	message := domain.Message{
		Channel: "general",
		Author:  domain.User{ID: "user-bob", Nickname: "bob"},
		Content: "hello",
	}
	f.apply(t, "general", frameOf(t, "message", message))

	state := f.store.Snapshot()
	req.Len(state.Channels["general"].Messages, 1)
	req.Equal([]Notification{{Channel: "general", Message: message}}, f.notifications)
}

func TestStore_Own_Message_Never_Notifies(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, false)

	message := domain.Message{
		Channel: "general",
		Author:  domain.User{ID: "user-alice", Nickname: "alice"},
		Content: "talking to myself",
	}
	f.apply(t, "general", frameOf(t, "message", message))

	req.Len(f.store.Snapshot().Channels["general"].Messages, 1)
	req.Empty(f.notifications)
}

func TestStore_MentionOnly_Filters_Notifications(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, true)
	author := domain.User{ID: "user-bob", Nickname: "bob"}

	f.apply(t, "general", frameOf(t, "message",
		domain.Message{Channel: "general", Author: author, Content: "nothing for you"}))
	req.Empty(f.notifications)

	f.apply(t, "general", frameOf(t, "message",
		domain.Message{Channel: "general", Author: author, Content: "ping alice!"}))
	req.Len(f.notifications, 1)
}

func TestStore_Offline_Viewer_Never_Notifies(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, false)
	f.store.SetViewerStatus("OFFLINE")

	f.apply(t, "general", frameOf(t, "message", domain.Message{
		Channel: "general",
		Author:  domain.User{ID: "user-bob", Nickname: "bob"},
		Content: "anyone here?",
	}))
	req.Empty(f.notifications)
}

func TestStore_ChannelDeleted_Leaves_Locally_Without_Request(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, false)
	f.store.Hydrate("doomed", nil, nil)

	f.apply(t, "doomed", frameOf(t, "channelDeleted", "doomed"))

	req.Equal([]string{"doomed"}, f.localLeaves)
	req.NotContains(f.store.Snapshot().Channels, "doomed")
}

func TestStore_Self_Kick_Leaves_Locally(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, false)
	f.store.Hydrate("general", nil, nil)

	f.apply(t, "general", frameOf(t, "userKick",
		domain.User{ID: "user-alice", Nickname: "alice"}))

	req.Equal([]string{"general"}, f.localLeaves)
	req.NotContains(f.store.Snapshot().Channels, "general")
}

func TestStore_Peer_Kick_Only_Removes_The_Member(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, false)
	bob := domain.User{ID: "user-bob", Nickname: "bob"}
	f.store.Hydrate("general", []domain.User{bob}, nil)

	f.apply(t, "general", frameOf(t, "userKick", bob))

	req.Empty(f.localLeaves)
	state := f.store.Snapshot()
	req.Contains(state.Channels, "general")
	req.NotContains(state.Channels["general"].Members, "bob")
}

func TestStore_Membership_Events_Track_Members(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, false)
	f.store.Hydrate("general", nil, nil)
	bob := domain.User{ID: "user-bob", Nickname: "bob"}
	carol := domain.User{ID: "user-carol", Nickname: "carol"}

	f.apply(t, "general", frameOf(t, "userJoined", bob))
	f.apply(t, "general", frameOf(t, "invitedUserJoined", map[string]any{
		"user":    carol,
		"channel": domain.Channel{Name: "general"},
	}))
	members := f.store.Snapshot().Channels["general"].Members
	req.Len(members, 2)

	f.apply(t, "general", frameOf(t, "userLeft", bob))
	members = f.store.Snapshot().Channels["general"].Members
	req.NotContains(members, "bob")
	req.Contains(members, "carol")
}

func TestStore_Typing_Is_Overwritten_And_Cleared(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, false)
	f.store.Hydrate("general", nil, nil)

	typing := func(content string) transport.Frame {
		return frameOf(t, "typing", map[string]string{
			"user": "bob", "channel": "general", "content": content,
		})
	}
	f.apply(t, "general", typing("hel"))
	f.apply(t, "general", typing("hello"))
	req.Equal("hello", f.store.Snapshot().Channels["general"].Typing["bob"])

	f.apply(t, "general", typing(""))
	req.NotContains(f.store.Snapshot().Channels["general"].Typing, "bob")

	// A delivered message also clears the author's typing text
	f.apply(t, "general", typing("final say"))
	f.apply(t, "general", frameOf(t, "message", domain.Message{
		Channel: "general",
		Author:  domain.User{ID: "user-bob", Nickname: "bob"},
		Content: "final say",
	}))
	req.NotContains(f.store.Snapshot().Channels["general"].Typing, "bob")
}

func TestStore_Global_Presence_Events(t *testing.T) {
	req := require.New(t)
	f := newStoreFixture(t, false)
	bob := domain.User{ID: "user-bob", Nickname: "bob"}
	carol := domain.User{ID: "user-carol", Nickname: "carol"}

	f.apply(t, "", frameOf(t, "user:list", []domain.User{bob, carol}))
	req.Len(f.store.Snapshot().Online, 2)

	f.apply(t, "", frameOf(t, "user:OFFLINE", carol))
	req.NotContains(f.store.Snapshot().Online, "carol")

	f.apply(t, "", frameOf(t, "user:DND", bob))
	req.Equal("DND", f.store.Snapshot().Statuses["bob"])

	// Going offline clears the voluntary status as well
	f.apply(t, "", frameOf(t, "user:OFFLINE", bob))
	state := f.store.Snapshot()
	req.NotContains(state.Online, "bob")
	req.NotContains(state.Statuses, "bob")
}
