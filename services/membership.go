//go:generate go run go.uber.org/mock/mockgen -source=membership.go -destination=../mocks/mock_membership_service.go -package=mocks
package services

import (
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lack-chat/contract"
	"lack-chat/domain"
	"lack-chat/domain/event"
	"lack-chat/errors"
	"lack-chat/repositories"
)

type IMembershipService interface {
	JoinChannel(sessionID string, user domain.User, channelName string) (domain.Channel, error)
	LeaveChannel(sessionID string, user domain.User, channelName string) (bool, error)
	DeleteChannel(user domain.User, channelName string) error
	InviteUser(sessionID string, inviter domain.User, channelName, targetNickname string) error
	KickUser(kicker domain.User, channelName, targetNickname string, isRevoke bool) error
	Typing(sessionID string, user domain.User, channelName, content string)
}

// MembershipService owns the channel membership lifecycle and the kick/ban
// policy. Every operation validates its preconditions short-circuit, first
// failing predicate wins, and returns a domain error meant for the ack
// payload rather than a fault.
type MembershipService struct {
	channels    repositories.IChannelRepository
	users       repositories.IUserRepository
	kicks       repositories.IKickRepository
	broadcaster contract.IBroadcaster
	log         *slog.Logger

	// pairLocks serializes kick/invite decisions per (channel, target) so
	// the count-then-write ledger updates cannot interleave.
	pairLocks keyedMutex
}

func NewMembershipService(channels repositories.IChannelRepository,
	users repositories.IUserRepository, kicks repositories.IKickRepository,
	broadcaster contract.IBroadcaster, log *slog.Logger) *MembershipService {
	return &MembershipService{
		channels:    channels,
		users:       users,
		kicks:       kicks,
		broadcaster: broadcaster,
		log:         log,
	}
}

// JoinChannel adds the user to a public channel. Joining a name nobody
// claimed yet creates the channel with the joiner as admin. A pending
// invite is promoted to a full membership instead of failing as
// "already member".
func (s *MembershipService) JoinChannel(sessionID string, user domain.User, channelName string) (domain.Channel, error) {
	channel, err := s.channels.FindByName(channelName)
	if stderrors.Is(err, errors.ErrChannelNotFound) {
		return s.createChannel(sessionID, user, channelName)
	}
	if err != nil {
		return domain.Channel{}, err
	}
	if !channel.IsPublic {
		return domain.Channel{}, errors.ErrChannelPrivate
	}
	membership, exists, err := s.channels.Membership(user.ID, channel)
	if err != nil {
		return domain.Channel{}, err
	}
	if exists && !membership.Pending() {
		return domain.Channel{}, errors.ErrAlreadyMember
	}
	if !exists {
		if err := s.channels.AttachUser(user.ID, channel); err != nil {
			return domain.Channel{}, err
		}
	}
	if err := s.channels.UpdateJoinedAt(user.ID, channel, time.Now().UTC()); err != nil {
		return domain.Channel{}, err
	}
	s.broadcaster.Broadcast(contract.Broadcast{
		Room:   contract.ChannelRoom(channel.Name),
		Except: sessionID,
		Event:  event.UserJoined{User: user},
	})
	return channel, nil
}

// createChannel claims a free channel name: the creator becomes the admin
// and its first full member.
func (s *MembershipService) createChannel(sessionID string, user domain.User, channelName string) (domain.Channel, error) {
	channel := domain.Channel{
		ID:       domain.ChannelID(uuid.NewString()),
		Name:     channelName,
		IsPublic: true,
		AdminID:  user.ID,
	}
	if err := s.channels.Create(channel); err != nil {
		return domain.Channel{}, err
	}
	if err := s.channels.AttachUser(user.ID, channel); err != nil {
		return domain.Channel{}, err
	}
	if err := s.channels.UpdateJoinedAt(user.ID, channel, time.Now().UTC()); err != nil {
		return domain.Channel{}, err
	}
	s.broadcaster.Broadcast(contract.Broadcast{
		Room:   contract.ChannelRoom(channel.Name),
		Except: sessionID,
		Event:  event.UserJoined{User: user},
	})
	return channel, nil
}

// LeaveChannel removes the user's membership. When the admin leaves, the
// whole channel ceases to exist; the returned bool reports that case.
func (s *MembershipService) LeaveChannel(sessionID string, user domain.User, channelName string) (bool, error) {
	channel, err := s.channels.FindByName(channelName)
	if err != nil {
		return false, err
	}
	if channel.AdminID == user.ID {
		if err := s.deleteCascade(channel); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := s.channels.DetachUser(user.ID, channel); err != nil {
		return false, err
	}
	s.broadcaster.Broadcast(contract.Broadcast{
		Room:   contract.ChannelRoom(channel.Name),
		Except: sessionID,
		Event:  event.UserLeft{User: user},
	})
	return false, nil
}

func (s *MembershipService) DeleteChannel(user domain.User, channelName string) error {
	channel, err := s.channels.FindByName(channelName)
	if err != nil {
		return err
	}
	if channel.AdminID != user.ID {
		return errors.ErrNotAdmin
	}
	return s.deleteCascade(channel)
}

// deleteCascade removes the channel with all memberships and tells the whole
// namespace, since invited-but-unaccepted users must also learn of deletion.
func (s *MembershipService) deleteCascade(channel domain.Channel) error {
	if err := s.channels.Delete(channel); err != nil {
		return err
	}
	s.broadcaster.Broadcast(contract.Broadcast{
		Room:  contract.ChannelRoom(channel.Name),
		Event: event.ChannelDeleted{Channel: channel.Name},
	})
	return nil
}

// InviteUser creates a pending membership for the target. Non-admin invites
// are refused on private channels and for targets at the ban threshold; an
// admin invite always resets the target's ban state first.
func (s *MembershipService) InviteUser(sessionID string, inviter domain.User, channelName, targetNickname string) error {
	channel, err := s.channels.FindByName(channelName)
	if err != nil {
		return err
	}
	target, err := s.users.GetByNickname(targetNickname)
	if err != nil {
		return err
	}
	_, exists, err := s.channels.Membership(target.ID, channel)
	if err != nil {
		return err
	}
	if exists {
		return errors.ErrAlreadyMember
	}
	isAdmin := channel.AdminID == inviter.ID
	if !isAdmin && !channel.IsPublic {
		return errors.ErrNotAdmin
	}

	unlock := s.pairLocks.lock(pairKey(channel.ID, target.ID))
	defer unlock()

	if !isAdmin {
		count, err := s.kicks.CountKicks(target.ID, channel.ID)
		if err != nil {
			return err
		}
		if count >= domain.BanThreshold {
			return errors.ErrUserBanned
		}
	} else {
		if err := s.kicks.DeleteAll(target.ID, channel.ID); err != nil {
			return err
		}
	}

	if err := s.channels.AttachUser(target.ID, channel); err != nil {
		return err
	}
	s.broadcaster.Broadcast(contract.Broadcast{
		Room:   contract.ChannelRoom(channel.Name),
		Except: sessionID,
		Event:  event.NewInvite{User: target, Channel: channel},
	})
	s.broadcaster.Broadcast(contract.Broadcast{
		Room:  contract.ChannelRoom(channel.Name),
		Event: event.InvitedUserJoined{User: target, Channel: channel},
	})
	return nil
}

// KickUser removes the target from the channel and records the kick vote.
//
// Admin without revoke is a full permanent ban: records are topped up until
// the target sits exactly at the ban threshold, regardless of how many peer
// votes already exist. Admin with revoke removes the target this one time
// without touching ban state. A peer may vote at most once per target.
func (s *MembershipService) KickUser(kicker domain.User, channelName, targetNickname string, isRevoke bool) error {
	channel, err := s.channels.FindByName(channelName)
	if err != nil {
		return err
	}
	target, err := s.users.GetByNickname(targetNickname)
	if err != nil {
		return err
	}
	_, exists, err := s.channels.Membership(target.ID, channel)
	if err != nil {
		return err
	}
	if !exists {
		return errors.ErrNotMember
	}
	if channel.AdminID == target.ID {
		return errors.ErrKickAdmin
	}
	if target.ID == kicker.ID {
		return errors.ErrKickSelf
	}
	if (isRevoke || !channel.IsPublic) && channel.AdminID != kicker.ID {
		return errors.ErrNotAdmin
	}

	unlock := s.pairLocks.lock(pairKey(channel.ID, target.ID))
	defer unlock()

	if channel.AdminID == kicker.ID {
		if !isRevoke {
			count, err := s.kicks.CountKicks(target.ID, channel.ID)
			if err != nil {
				return err
			}
			for i := count; i < domain.BanThreshold; i++ {
				record := domain.KickRecord{
					KickerID:  kicker.ID,
					TargetID:  target.ID,
					ChannelID: channel.ID,
					CreatedAt: time.Now().UTC(),
				}
				if err := s.kicks.Create(record); err != nil {
					return err
				}
			}
		}
	} else {
		alreadyKicked, err := s.kicks.FindByTriple(kicker.ID, target.ID, channel.ID)
		if err != nil {
			return err
		}
		if alreadyKicked {
			return errors.ErrAlreadyKicked
		}
		record := domain.KickRecord{
			KickerID:  kicker.ID,
			TargetID:  target.ID,
			ChannelID: channel.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.kicks.Create(record); err != nil {
			return err
		}
	}

	if err := s.channels.DetachUser(target.ID, channel); err != nil {
		return err
	}
	s.broadcaster.Broadcast(contract.Broadcast{
		Room:  contract.ChannelRoom(channel.Name),
		Event: event.UserKicked{User: target},
	})
	return nil
}

// Typing relays the currently typed text to the channel peers.
// No state change, no persistence, no validation.
func (s *MembershipService) Typing(sessionID string, user domain.User, channelName, content string) {
	s.broadcaster.Broadcast(contract.Broadcast{
		Room:   contract.ChannelRoom(channelName),
		Except: sessionID,
		Event:  event.UserTyping{User: user.Nickname, Channel: channelName, Content: content},
	})
}

func pairKey(channelID domain.ChannelID, targetID domain.UserID) string {
	return string(channelID) + ":" + string(targetID)
}

// keyedMutex hands out one mutex per key, created lazily.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
