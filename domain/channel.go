package domain

import "time"

type ChannelID string

// Channel is a named, admin-owned group chat scope. The creator is the one
// and only admin for the whole lifetime of the channel.
type Channel struct {
	ID       ChannelID `json:"id"`
	Name     string    `json:"name"`
	IsPublic bool      `json:"isPublic"`
	AdminID  UserID    `json:"adminId"`
}

// Membership links a user to a channel. A nil JoinedAt means the user was
// invited but has not accepted yet; such users still receive namespace-wide
// channel broadcasts.
type Membership struct {
	UserID    UserID     `json:"userId"`
	ChannelID ChannelID  `json:"channelId"`
	JoinedAt  *time.Time `json:"joinedAt"`
}

// Pending reports whether the membership is an unaccepted invite.
func (m Membership) Pending() bool {
	return m.JoinedAt == nil
}
