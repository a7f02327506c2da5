package services

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"lack-chat/contract"
	"lack-chat/domain"
	"lack-chat/repositories"
)

// recordingBroadcaster captures broadcasts in issue order so tests can
// assert on fan-out without spinning up the runtime.
type recordingBroadcaster struct {
	mu         sync.Mutex
	broadcasts []contract.Broadcast
}

func (b *recordingBroadcaster) Broadcast(bc contract.Broadcast) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broadcasts = append(b.broadcasts, bc)
}

func (b *recordingBroadcaster) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lo.Map(b.broadcasts, func(bc contract.Broadcast, _ int) string {
		return bc.Event.Name()
	})
}

func (b *recordingBroadcaster) all() []contract.Broadcast {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]contract.Broadcast(nil), b.broadcasts...)
}

type fixture struct {
	t           *testing.T
	channels    repositories.ChannelRepository
	users       repositories.UserRepository
	kicks       repositories.KickRepository
	messages    repositories.MessageRepository
	broadcaster *recordingBroadcaster
	membership  *MembershipService
	relay       *MessageRelay
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	broadcaster := &recordingBroadcaster{}
	channels := repositories.NewChannelRepository(db)
	users := repositories.NewUserRepository(db)
	kicks := repositories.NewKickRepository(db)
	messages := repositories.NewMessageRepository(db, log, nil)
	return &fixture{
		t:           t,
		channels:    channels,
		users:       users,
		kicks:       kicks,
		messages:    messages,
		broadcaster: broadcaster,
		membership:  NewMembershipService(channels, users, kicks, broadcaster, log),
		relay:       NewMessageRelay(messages, broadcaster, nil, log),
	}
}

func (f *fixture) user(nickname string) domain.User {
	f.t.Helper()
	user := domain.User{ID: domain.UserID("user-" + nickname), Nickname: nickname}
	require.NoError(f.t, f.users.Create(user))
	return user
}

func (f *fixture) mustUser(nickname string) domain.User {
	f.t.Helper()
	user, err := f.users.GetByNickname(nickname)
	require.NoError(f.t, err)
	return user
}

func (f *fixture) channel(name string, public bool, admin domain.User) domain.Channel {
	f.t.Helper()
	channel := domain.Channel{
		ID:       domain.ChannelID("ch-" + name),
		Name:     name,
		IsPublic: public,
		AdminID:  admin.ID,
	}
	require.NoError(f.t, f.channels.Create(channel))
	require.NoError(f.t, f.channels.AttachUser(admin.ID, channel))
	require.NoError(f.t, f.channels.UpdateJoinedAt(admin.ID, channel, time.Now().UTC()))
	return channel
}

func (f *fixture) join(user domain.User, channel domain.Channel) {
	f.t.Helper()
	require.NoError(f.t, f.channels.AttachUser(user.ID, channel))
	require.NoError(f.t, f.channels.UpdateJoinedAt(user.ID, channel, time.Now().UTC()))
}

func (f *fixture) banLevel(target domain.User, channel domain.Channel) int {
	f.t.Helper()
	count, err := f.kicks.CountKicks(target.ID, channel.ID)
	require.NoError(f.t, err)
	return count
}

func (f *fixture) isMember(user domain.User, channel domain.Channel) bool {
	f.t.Helper()
	_, exists, err := f.channels.Membership(user.ID, channel)
	require.NoError(f.t, err)
	return exists
}
