//go:generate go run go.uber.org/mock/mockgen -source=presence.go -destination=../mocks/mock_presence_service.go -package=mocks
package services

import (
	"log/slog"

	"lack-chat/contract"
	"lack-chat/domain"
	"lack-chat/domain/event"
	"lack-chat/presence"
	"lack-chat/repositories"
)

type IPresenceService interface {
	OnConnect(sessionID string, user domain.User) ([]domain.User, error)
	OnDisconnect(sessionID string, user domain.User)
	SetStatus(sessionID string, user domain.User, status string)
}

// PresenceService layers broadcasting on top of the presence registry.
// ONLINE/OFFLINE fire exactly once per 0↔1 transition of a user's
// connection count, never per individual connection.
type PresenceService struct {
	registry    *presence.Registry
	users       repositories.IUserRepository
	broadcaster contract.IBroadcaster
	log         *slog.Logger
}

func NewPresenceService(registry *presence.Registry, users repositories.IUserRepository,
	broadcaster contract.IBroadcaster, log *slog.Logger) *PresenceService {
	return &PresenceService{
		registry:    registry,
		users:       users,
		broadcaster: broadcaster,
		log:         log,
	}
}

// OnConnect registers the connection. The first connection of a user
// announces them to everyone else; every connection receives the snapshot
// of currently online peers, delivered as `user:list` to that session only.
func (p *PresenceService) OnConnect(sessionID string, user domain.User) ([]domain.User, error) {
	first := p.registry.Connect(user.ID, sessionID)
	if first {
		p.broadcaster.Broadcast(contract.Broadcast{
			Room:   contract.GlobalRoom,
			Except: sessionID,
			Event:  event.UserOnline{User: user},
		})
	}
	online, err := p.users.GetByIDs(p.registry.OnlineExcept(user.ID))
	if err != nil {
		return nil, err
	}
	p.broadcaster.Broadcast(contract.Broadcast{
		Room:  contract.GlobalRoom,
		Only:  sessionID,
		Event: event.OnlineList{Users: online},
	})
	return online, nil
}

// OnDisconnect drops the connection; only the last one of a user announces
// them offline.
func (p *PresenceService) OnDisconnect(sessionID string, user domain.User) {
	last := p.registry.Disconnect(user.ID, sessionID)
	if last {
		p.broadcaster.Broadcast(contract.Broadcast{
			Room:   contract.GlobalRoom,
			Except: sessionID,
			Event:  event.UserOffline{User: user},
		})
	}
}

// SetStatus relays a voluntary status signal to everyone else.
// No presence state changes.
func (p *PresenceService) SetStatus(sessionID string, user domain.User, status string) {
	p.broadcaster.Broadcast(contract.Broadcast{
		Room:   contract.GlobalRoom,
		Except: sessionID,
		Event:  event.UserStatus{User: user, Status: status},
	})
}
