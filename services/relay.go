//go:generate go run go.uber.org/mock/mockgen -source=relay.go -destination=../mocks/mock_message_relay.go -package=mocks
package services

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lack-chat/contract"
	"lack-chat/domain"
	"lack-chat/domain/event"
	"lack-chat/moderation"
	"lack-chat/repositories"
)

type IMessageRelay interface {
	PostMessage(sessionID string, channelName string, author domain.User, content string) (domain.Message, error)
	GetMessages(channelName string, cursor *string) ([]domain.Message, *string, error)
}

// MessageRelay persists messages and re-broadcasts them to the channel room.
// Persist-before-broadcast is the only durability guarantee offered here.
type MessageRelay struct {
	messages    repositories.IMessageRepository
	broadcaster contract.IBroadcaster
	moderator   *moderation.Moderator
	log         *slog.Logger
}

// NewMessageRelay accepts a nil moderator, which disables censoring.
func NewMessageRelay(messages repositories.IMessageRepository,
	broadcaster contract.IBroadcaster, moderator *moderation.Moderator,
	log *slog.Logger) *MessageRelay {
	return &MessageRelay{
		messages:    messages,
		broadcaster: broadcaster,
		moderator:   moderator,
		log:         log,
	}
}

// PostMessage censors, stores, then broadcasts the message to the other
// members of the channel room, and returns the stored record to the caller.
// Empty content is accepted, matching upstream behavior.
func (r *MessageRelay) PostMessage(sessionID string, channelName string, author domain.User, content string) (domain.Message, error) {
	if r.moderator != nil {
		content = r.moderator.Censor(content)
	}
	message := domain.Message{
		ID:        uuid.New(),
		Channel:   channelName,
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}
	r.broadcaster.Broadcast(contract.Broadcast{
		Room:   contract.ChannelRoom(channelName),
		Except: sessionID,
		Event:  event.MessagePosted{Message: message},
	})
	return message, nil
}

// GetMessages pages backwards through a channel's history for hydration.
func (r *MessageRelay) GetMessages(channelName string, cursor *string) ([]domain.Message, *string, error) {
	return r.messages.GetMessages(channelName, cursor)
}
