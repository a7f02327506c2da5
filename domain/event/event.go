// Package event defines the domain events broadcast over connection scopes.
// Event names are the wire contract shared with clients.
package event

import "lack-chat/domain"

// Event is anything the server pushes to connected clients.
// Name is the wire event type, Payload the value serialized next to it.
type Event interface {
	Name() string
	Payload() any
}

// Global scope events.

type UserOnline struct {
	User domain.User
}

func (e UserOnline) Name() string { return "user:ONLINE" }
func (e UserOnline) Payload() any { return e.User }

type UserOffline struct {
	User domain.User
}

func (e UserOffline) Name() string { return "user:OFFLINE" }
func (e UserOffline) Payload() any { return e.User }

// UserStatus carries a voluntary, client-chosen state. The event name embeds
// the raw status, mirroring the `user:<status>` wire family.
type UserStatus struct {
	User   domain.User
	Status string
}

func (e UserStatus) Name() string { return "user:" + e.Status }
func (e UserStatus) Payload() any { return e.User }

// OnlineList is sent to a newly connected client only.
type OnlineList struct {
	Users []domain.User
}

func (e OnlineList) Name() string { return "user:list" }
func (e OnlineList) Payload() any { return e.Users }

// Channel scope events.

type MessagePosted struct {
	Message domain.Message
}

func (e MessagePosted) Name() string { return "message" }
func (e MessagePosted) Payload() any { return e.Message }

type UserJoined struct {
	User domain.User
}

func (e UserJoined) Name() string { return "userJoined" }
func (e UserJoined) Payload() any { return e.User }

type UserLeft struct {
	User domain.User
}

func (e UserLeft) Name() string { return "userLeft" }
func (e UserLeft) Payload() any { return e.User }

type ChannelDeleted struct {
	Channel string
}

func (e ChannelDeleted) Name() string { return "channelDeleted" }
func (e ChannelDeleted) Payload() any { return e.Channel }

type NewInvite struct {
	User    domain.User
	Channel domain.Channel
}

func (e NewInvite) Name() string { return "newInvite" }
func (e NewInvite) Payload() any {
	return struct {
		User    domain.User    `json:"user"`
		Channel domain.Channel `json:"channel"`
	}{e.User, e.Channel}
}

// InvitedUserJoined goes to the whole namespace so that even non-members
// (drawer listings) learn about the pending membership.
type InvitedUserJoined struct {
	User    domain.User
	Channel domain.Channel
}

func (e InvitedUserJoined) Name() string { return "invitedUserJoined" }
func (e InvitedUserJoined) Payload() any {
	return struct {
		User    domain.User    `json:"user"`
		Channel domain.Channel `json:"channel"`
	}{e.User, e.Channel}
}

type UserKicked struct {
	User domain.User
}

func (e UserKicked) Name() string { return "userKick" }
func (e UserKicked) Payload() any { return e.User }

// UserTyping is ephemeral: overwritten on every keystroke, never persisted.
type UserTyping struct {
	User    string
	Channel string
	Content string
}

func (e UserTyping) Name() string { return "typing" }
func (e UserTyping) Payload() any {
	return struct {
		User    string `json:"user"`
		Channel string `json:"channel"`
		Content string `json:"content"`
	}{e.User, e.Channel, e.Content}
}
