package domain

import "time"

// BanThreshold is the ban level at which a user can no longer be re-invited
// by peers. Only an admin invite resets the level.
const BanThreshold = 3

// KickRecord is one vote to remove a user from a channel. Peer kicks produce
// at most one record per (kicker, target, channel) triple; the admin full-ban
// path tops records up until the target's count reaches BanThreshold.
type KickRecord struct {
	KickerID  UserID    `json:"kickerId"`
	TargetID  UserID    `json:"targetId"`
	ChannelID ChannelID `json:"channelId"`
	CreatedAt time.Time `json:"createdAt"`
}
