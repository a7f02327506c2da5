package e2e

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"lack-chat/domain"
	"lack-chat/errors"
)

type testChatFlowSuite struct {
	BaseChatSuite
}

func TestChatFlowSuite(t *testing.T) {
	suite.Run(t, &testChatFlowSuite{})
}

// TestFullChannelLifecycle walks one channel from creation to the ban
// ledger: presence, implicit creation on join, message relay, admin kick
// and the admin invite that resets the ban.
func (s *testChatFlowSuite) TestFullChannelLifecycle() {
	s.Step("Alice connects to an empty roster")
	alice := s.Connect("alice")
	defer alice.Close()
	list := s.WaitEvent(alice.Global, "user:list")
	var online []domain.User
	s.DecodeEvent(list, &online)
	s.Require().Empty(online)

	s.Step("Bob comes online: Alice hears it, Bob gets the snapshot")
	bob := s.Connect("bob")
	defer bob.Close()
	frame := s.WaitEvent(alice.Global, "user:ONLINE")
	var arrived domain.User
	s.DecodeEvent(frame, &arrived)
	s.Require().Equal(bob.User.ID, arrived.ID)

	snapshot := s.WaitEvent(bob.Global, "user:list")
	var peers []domain.User
	s.DecodeEvent(snapshot, &peers)
	s.Require().Len(peers, 1)
	s.Require().Equal("alice", peers[0].Nickname)

	s.Step("Alice claims a fresh channel by joining it")
	aliceGeneral, general := alice.JoinChannel("general")
	s.Require().Equal("general", general.Name)
	s.Require().True(general.IsPublic)
	s.Require().Equal(alice.User.ID, general.AdminID)

	s.Step("Bob joins and only Alice is told")
	bobGeneral, _ := bob.JoinChannel("general")
	joined := s.WaitEvent(aliceGeneral, "userJoined")
	var joiner domain.User
	s.DecodeEvent(joined, &joiner)
	s.Require().Equal(bob.User.ID, joiner.ID)

	s.Step("A posted message reaches the other member")
	ctx, cancel := s.Ctx()
	stored, err := aliceGeneral.AddMessage(ctx, "hello from alice")
	cancel()
	s.Require().NoError(err)
	s.Require().Equal("hello from alice", stored.Content)
	s.Require().NotEmpty(stored.ID)

	received := s.WaitEvent(bobGeneral, "message")
	var message domain.Message
	s.DecodeEvent(received, &message)
	s.Require().Equal(stored.ID, message.ID)
	s.Require().Equal(alice.User.ID, message.Author.ID)

	s.Step("Typing is relayed but never persisted")
	ctx, cancel = s.Ctx()
	s.Require().NoError(bobGeneral.Typing(ctx, "I was ty"))
	cancel()
	typing := s.WaitEvent(aliceGeneral, "typing")
	var draft struct {
		User    string `json:"user"`
		Content string `json:"content"`
	}
	s.DecodeEvent(typing, &draft)
	s.Require().Equal("bob", draft.User)
	s.Require().Equal("I was ty", draft.Content)

	s.Step("The admin kick lands Bob at the ban threshold")
	ctx, cancel = s.Ctx()
	s.Require().NoError(aliceGeneral.KickUser(ctx, "bob", false))
	cancel()
	kicked := s.WaitEvent(bobGeneral, "userKick")
	var target domain.User
	s.DecodeEvent(kicked, &target)
	s.Require().Equal(bob.User.ID, target.ID)

	s.Step("A peer invite bounces off the ban")
	carol := s.Connect("carol")
	defer carol.Close()
	carolGeneral, _ := carol.JoinChannel("general")
	ctx, cancel = s.Ctx()
	err = carolGeneral.InviteUser(ctx, "bob")
	cancel()
	s.Require().Error(err)
	s.Require().EqualError(err, errors.ErrUserBanned.Error())

	s.Step("The admin invite resets the ban and Bob can accept it")
	ctx, cancel = s.Ctx()
	s.Require().NoError(aliceGeneral.InviteUser(ctx, "bob"))
	cancel()
	s.WaitEvent(bobGeneral, "newInvite")

	ctx, cancel = s.Ctx()
	rejoined, err := bobGeneral.JoinChannel(ctx)
	cancel()
	s.Require().NoError(err)
	s.Require().Equal(general.ID, rejoined.ID)

	s.Step("Bob going away broadcasts OFFLINE")
	bob.Close()
	gone := s.WaitEvent(alice.Global, "user:OFFLINE")
	var departed domain.User
	s.DecodeEvent(gone, &departed)
	s.Require().Equal(bob.User.ID, departed.ID)
}

// TestHistoryHydration covers the paginated history a client pulls when it
// opens a channel.
func (s *testChatFlowSuite) TestHistoryHydration() {
	alice := s.Connect("alice")
	defer alice.Close()
	aliceGeneral, _ := alice.JoinChannel("general")

	s.Step("Alice fills the channel with a few messages")
	for _, content := range []string{"one", "two", "three"} {
		ctx, cancel := s.Ctx()
		_, err := aliceGeneral.AddMessage(ctx, content)
		cancel()
		s.Require().NoError(err)
	}

	s.Step("A fresh connection reads them back newest first")
	bob := s.Connect("bob")
	defer bob.Close()
	bobGeneral, _ := bob.JoinChannel("general")
	ctx, cancel := s.Ctx()
	page, err := bobGeneral.GetMessages(ctx, nil)
	cancel()
	s.Require().NoError(err)
	s.Require().Len(page.Messages, 3)
	s.Require().Equal("three", page.Messages[0].Content)
	s.Require().Equal("one", page.Messages[2].Content)
}
