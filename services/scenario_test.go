package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lack-chat/errors"
)

// Full lifecycle on channel "general": join, admin ban, blocked peer
// re-invite, admin re-invite resetting the ban.
func TestScenario_Admin_Ban_And_Reset(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.user("alice")
	bob := f.user("bob")
	f.user("carol")
	general := f.channel("general", true, alice)

	// Bob joins and becomes a member
	_, err := f.membership.JoinChannel("sess-bob", bob, "general")
	req.NoError(err)
	req.True(f.isMember(bob, general))
	req.Equal([]string{"userJoined"}, f.broadcaster.names())

	// Admin Alice kicks Bob without revoke: full permanent ban
	req.NoError(f.membership.KickUser(alice, "general", "bob", false))
	req.Equal(3, f.banLevel(bob, general))
	req.False(f.isMember(bob, general))
	req.Equal([]string{"userJoined", "userKick"}, f.broadcaster.names())

	// Carol, not admin, cannot bring Bob back
	err = f.membership.InviteUser("sess-carol", f.mustUser("carol"), "general", "bob")
	req.ErrorIs(err, errors.ErrUserBanned)

	// Alice invites Bob: ban resets to zero, pending membership appears
	req.NoError(f.membership.InviteUser("sess-alice", alice, "general", "bob"))
	req.Equal(0, f.banLevel(bob, general))

	membership, exists, err := f.channels.Membership(bob.ID, general)
	req.NoError(err)
	req.True(exists)
	req.True(membership.Pending())
	req.Equal([]string{"userJoined", "userKick", "newInvite", "invitedUserJoined"},
		f.broadcaster.names())
}

// Three distinct peers each vote once against the same target; the third
// vote reaches the threshold and blocks peer re-invites.
func TestScenario_Peer_Votes_Escalate_To_Ban(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.user("alice")
	frank := f.user("frank")
	x := f.channel("x", true, alice)
	f.join(frank, x)

	peers := []string{"dan", "erin", "grace"}
	for level, nickname := range peers {
		peer := f.user(nickname)
		f.join(peer, x)
		req.NoError(f.membership.KickUser(peer, "x", "frank", false))
		req.Equal(level+1, f.banLevel(frank, x))
		if level < len(peers)-1 {
			f.join(frank, x) // back in until the ban completes
		}
	}

	// A fourth non-admin invite of Frank fails
	hugo := f.user("hugo")
	f.join(hugo, x)
	err := f.membership.InviteUser("sess-hugo", hugo, "x", "frank")
	req.ErrorIs(err, errors.ErrUserBanned)

	// While the admin still can
	req.NoError(f.membership.InviteUser("sess-alice", alice, "x", "frank"))
	req.Equal(0, f.banLevel(frank, x))
}
