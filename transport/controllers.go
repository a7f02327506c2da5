package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"lack-chat/domain"
	"lack-chat/errors"
	"lack-chat/services"
)

// decode unmarshals and validates a request payload. Failures map to
// ErrInvalidPayload so they land in the ack rather than a fault.
func decode(validate *validator.Validate, frame Frame, dst any) error {
	if len(frame.Payload) > 0 {
		if err := json.Unmarshal(frame.Payload, dst); err != nil {
			return fmt.Errorf("%w: %s", errors.ErrInvalidPayload, err)
		}
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrInvalidPayload, err)
	}
	return nil
}

// reply sends the success ack for a request, or the failure ack when the
// operation errored. Infrastructure faults are logged here and masked on
// the wire.
func reply(log *slog.Logger, sess *Session, frame Frame, payload any, err error) {
	if err != nil {
		if !errors.IsDomain(err) {
			log.Error("operation failed",
				slog.String("event", frame.Event), slog.Any("error", err))
		}
		_ = sess.Send(AckFailure(frame.ID, err))
		return
	}
	ack, err := Ack(frame.ID, payload)
	if err != nil {
		log.Error("ack encoding failed",
			slog.String("event", frame.Event), slog.Any("error", err))
		_ = sess.Send(AckFailure(frame.ID, err))
		return
	}
	_ = sess.Send(ack)
}

// PresenceController serves the global scope: status signals. Connect and
// disconnect are driven by the socket lifecycle, not by frames.
type PresenceController struct {
	presence services.IPresenceService
	validate *validator.Validate
	log      *slog.Logger
}

func NewPresenceController(presence services.IPresenceService,
	validate *validator.Validate, log *slog.Logger) *PresenceController {
	return &PresenceController{presence: presence, validate: validate, log: log}
}

func (c *PresenceController) Handle(sess *Session, frame Frame) bool {
	if frame.Event != SetStatusEvent {
		return false
	}
	var request SetStatusRequest
	if err := decode(c.validate, frame, &request); err != nil {
		reply(c.log, sess, frame, nil, err)
		return true
	}
	c.presence.SetStatus(sess.ID, sess.User, request.Status)
	reply(c.log, sess, frame, nil, nil)
	return true
}

// ChannelController serves the membership operations of one channel scope.
// The channel name comes from the connection URL, never from the payload.
type ChannelController struct {
	membership services.IMembershipService
	validate   *validator.Validate
	log        *slog.Logger
}

func NewChannelController(membership services.IMembershipService,
	validate *validator.Validate, log *slog.Logger) *ChannelController {
	return &ChannelController{membership: membership, validate: validate, log: log}
}

func (c *ChannelController) Handle(sess *Session, channel string, frame Frame) bool {
	switch frame.Event {
	case AddUserEvent:
		joined, err := c.membership.JoinChannel(sess.ID, sess.User, channel)
		if err != nil {
			reply(c.log, sess, frame, nil, err)
			return true
		}
		reply(c.log, sess, frame, joined, nil)
	case RemoveUserEvent:
		deleted, err := c.membership.LeaveChannel(sess.ID, sess.User, channel)
		if err != nil {
			reply(c.log, sess, frame, nil, err)
			return true
		}
		reply(c.log, sess, frame, map[string]bool{"deleted": deleted}, nil)
	case DeleteChannelEvent:
		reply(c.log, sess, frame, nil, c.membership.DeleteChannel(sess.User, channel))
	case InviteUserEvent:
		var request InviteUserRequest
		if err := decode(c.validate, frame, &request); err != nil {
			reply(c.log, sess, frame, nil, err)
			return true
		}
		reply(c.log, sess, frame, nil,
			c.membership.InviteUser(sess.ID, sess.User, channel, request.Nickname))
	case KickUserEvent:
		var request KickUserRequest
		if err := decode(c.validate, frame, &request); err != nil {
			reply(c.log, sess, frame, nil, err)
			return true
		}
		reply(c.log, sess, frame, nil,
			c.membership.KickUser(sess.User, channel, request.Nickname, request.IsRevoke))
	case TypingEvent:
		var request TypingRequest
		if err := decode(c.validate, frame, &request); err != nil {
			reply(c.log, sess, frame, nil, err)
			return true
		}
		c.membership.Typing(sess.ID, sess.User, channel, request.Content)
		reply(c.log, sess, frame, nil, nil)
	default:
		return false
	}
	return true
}

// MessageController serves posting and history hydration of one channel scope.
type MessageController struct {
	relay    services.IMessageRelay
	validate *validator.Validate
	log      *slog.Logger
}

func NewMessageController(relay services.IMessageRelay,
	validate *validator.Validate, log *slog.Logger) *MessageController {
	return &MessageController{relay: relay, validate: validate, log: log}
}

// MessagePage is the getMessages ack payload.
type MessagePage struct {
	Messages []domain.Message `json:"messages"`
	Cursor   *string          `json:"cursor,omitempty"`
}

func (c *MessageController) Handle(sess *Session, channel string, frame Frame) bool {
	switch frame.Event {
	case AddMessageEvent:
		var request AddMessageRequest
		if err := decode(c.validate, frame, &request); err != nil {
			reply(c.log, sess, frame, nil, err)
			return true
		}
		message, err := c.relay.PostMessage(sess.ID, channel, sess.User, request.Content)
		if err != nil {
			reply(c.log, sess, frame, nil, err)
			return true
		}
		reply(c.log, sess, frame, message, nil)
	case GetMessagesEvent:
		var request GetMessagesRequest
		if err := decode(c.validate, frame, &request); err != nil {
			reply(c.log, sess, frame, nil, err)
			return true
		}
		messages, cursor, err := c.relay.GetMessages(channel, request.Cursor)
		if err != nil {
			reply(c.log, sess, frame, nil, err)
			return true
		}
		reply(c.log, sess, frame, MessagePage{Messages: messages, Cursor: cursor}, nil)
	default:
		return false
	}
	return true
}
