// Package transport adapts websocket connections to the chat services:
// event-typed JSON frames in, acknowledgement frames or broadcast events out.
package transport

import (
	"encoding/json"
	"fmt"

	"lack-chat/domain/event"
	"lack-chat/errors"
)

// Frame is the wire envelope in both directions. Requests carry an id the
// server echoes back on the acknowledgement; pushed events carry none.
type Frame struct {
	ID      string          `json:"id,omitempty"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// AckEvent marks a frame as the response to a request id.
const AckEvent = "ack"

// Request event names, client to server.
const (
	AddUserEvent       = "addUser"
	RemoveUserEvent    = "removeUser"
	DeleteChannelEvent = "deleteChannel"
	InviteUserEvent    = "inviteUser"
	KickUserEvent      = "kickUser"
	TypingEvent        = "typing"
	AddMessageEvent    = "addMessage"
	GetMessagesEvent   = "getMessages"
	SetStatusEvent     = "status"
)

// Request payloads. Channel names and nicknames are validated at the edge;
// message content deliberately is not (empty messages are accepted).

type AddUserRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type RemoveUserRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type DeleteChannelRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type InviteUserRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	Nickname string `json:"nickname" validate:"required,max=64"`
}

type KickUserRequest struct {
	Nickname string `json:"nickname" validate:"required,max=64"`
	IsRevoke bool   `json:"isRevoke"`
}

type TypingRequest struct {
	Content string `json:"content"`
}

type AddMessageRequest struct {
	Content string `json:"content"`
}

type GetMessagesRequest struct {
	Cursor *string `json:"cursor"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

// Ack builds the success acknowledgement for a request id.
func Ack(id string, payload any) (Frame, error) {
	frame := Frame{ID: id, Event: AckEvent}
	if payload == nil {
		return frame, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("marshal ack payload: %w", err)
	}
	frame.Payload = data
	return frame, nil
}

// AckFailure folds an operation error into the uniform {error} ack shape.
// Domain validation errors travel verbatim; infrastructure faults are
// masked, the caller is expected to log them.
func AckFailure(id string, err error) Frame {
	message := "something went wrong"
	if errors.IsDomain(err) {
		message = err.Error()
	}
	return Frame{ID: id, Event: AckEvent, Error: message}
}

// EventFrame wraps a domain event for the wire.
func EventFrame(e event.Event) (Frame, error) {
	data, err := json.Marshal(e.Payload())
	if err != nil {
		return Frame{}, fmt.Errorf("marshal event %s: %w", e.Name(), err)
	}
	return Frame{Event: e.Name(), Payload: data}, nil
}
