package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lack-chat/domain"
	"lack-chat/errors"
)

func TestChannelRepository_Attach_Promote_Detach(t *testing.T) {
	req := require.New(t)
	repository := NewChannelRepository(openTestDB(t))
	channel := domain.Channel{ID: "ch-1", Name: "general", IsPublic: true, AdminID: "alice"}
	req.NoError(repository.Create(channel))

	// Given a pending invite
	req.NoError(repository.AttachUser("bob", channel))

	membership, exists, err := repository.Membership("bob", channel)
	req.NoError(err)
	req.True(exists)
	req.True(membership.Pending())

	// When the user accepts by joining
	joinedAt := time.Now().UTC()
	req.NoError(repository.UpdateJoinedAt("bob", channel, joinedAt))

	// Then the membership is full
	membership, exists, err = repository.Membership("bob", channel)
	req.NoError(err)
	req.True(exists)
	req.False(membership.Pending())
	req.Equal(joinedAt, *membership.JoinedAt)

	// And detaching removes the relation entirely
	req.NoError(repository.DetachUser("bob", channel))
	_, exists, err = repository.Membership("bob", channel)
	req.NoError(err)
	req.False(exists)
}

func TestChannelRepository_Delete_Cascades_To_Memberships(t *testing.T) {
	req := require.New(t)
	repository := NewChannelRepository(openTestDB(t))
	channel := domain.Channel{ID: "ch-1", Name: "general", IsPublic: true, AdminID: "alice"}
	other := domain.Channel{ID: "ch-2", Name: "random", IsPublic: true, AdminID: "alice"}
	req.NoError(repository.Create(channel))
	req.NoError(repository.Create(other))
	req.NoError(repository.AttachUser("bob", channel))
	req.NoError(repository.AttachUser("carol", channel))
	req.NoError(repository.AttachUser("bob", other))

	// When the channel is deleted
	req.NoError(repository.Delete(channel))

	// Then it cannot be found anymore
	_, err := repository.FindByName("general")
	req.ErrorIs(err, errors.ErrChannelNotFound)

	// And its memberships are gone while other channels keep theirs
	members, err := repository.Members(channel)
	req.NoError(err)
	req.Empty(members)

	members, err = repository.Members(other)
	req.NoError(err)
	req.Len(members, 1)
}

func TestUserRepository_Nickname_Index(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))
	alice := domain.User{ID: "u-1", Nickname: "alice"}
	req.NoError(repository.Create(alice))

	found, err := repository.GetByNickname("alice")
	req.NoError(err)
	req.Equal(alice, found)

	_, err = repository.GetByNickname("nobody")
	req.ErrorIs(err, errors.ErrUserNotFound)
}
