package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"lack-chat/domain"
	"lack-chat/errors"
)

type IChannelRepository interface {
	Create(channel domain.Channel) error
	FindByName(name string) (domain.Channel, error)
	Delete(channel domain.Channel) error
	AttachUser(userID domain.UserID, channel domain.Channel) error
	DetachUser(userID domain.UserID, channel domain.Channel) error
	UpdateJoinedAt(userID domain.UserID, channel domain.Channel, at time.Time) error
	Membership(userID domain.UserID, channel domain.Channel) (domain.Membership, bool, error)
	Members(channel domain.Channel) ([]domain.Membership, error)
}

// ChannelRepository owns channels and their memberships.
// Membership keys live under the channel id so a channel deletion can
// cascade with a single prefix scan.
type ChannelRepository struct {
	db *badger.DB
}

func NewChannelRepository(db *badger.DB) ChannelRepository {
	return ChannelRepository{db: db}
}

func channelKey(name string) []byte {
	return []byte("channel:" + name)
}

func memberPrefix(id domain.ChannelID) []byte {
	return []byte(fmt.Sprintf("member:%s:", id))
}

func memberKey(id domain.ChannelID, userID domain.UserID) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", id, userID))
}

func (c ChannelRepository) Create(channel domain.Channel) error {
	data, err := json.Marshal(channel)
	if err != nil {
		return fmt.Errorf("marshal channel: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(channelKey(channel.Name), data)
	})
}

func (c ChannelRepository) FindByName(name string) (domain.Channel, error) {
	var channel domain.Channel
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(channelKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &channel)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Channel{}, errors.ErrChannelNotFound
	}
	return channel, err
}

// Delete removes the channel and cascades to every membership,
// pending invites included.
func (c ChannelRepository) Delete(channel domain.Channel) error {
	return c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(channelKey(channel.Name)); err != nil {
			return err
		}
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := memberPrefix(channel.ID)
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// AttachUser creates a pending membership (no JoinedAt). Callers promote it
// with UpdateJoinedAt on an actual join.
func (c ChannelRepository) AttachUser(userID domain.UserID, channel domain.Channel) error {
	membership := domain.Membership{UserID: userID, ChannelID: channel.ID}
	data, err := json.Marshal(membership)
	if err != nil {
		return fmt.Errorf("marshal membership: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(memberKey(channel.ID, userID), data)
	})
}

func (c ChannelRepository) DetachUser(userID domain.UserID, channel domain.Channel) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(memberKey(channel.ID, userID))
	})
}

func (c ChannelRepository) UpdateJoinedAt(userID domain.UserID, channel domain.Channel, at time.Time) error {
	membership := domain.Membership{UserID: userID, ChannelID: channel.ID, JoinedAt: &at}
	data, err := json.Marshal(membership)
	if err != nil {
		return fmt.Errorf("marshal membership: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(memberKey(channel.ID, userID), data)
	})
}

// Membership returns the relation and whether it exists at all.
func (c ChannelRepository) Membership(userID domain.UserID, channel domain.Channel) (domain.Membership, bool, error) {
	var membership domain.Membership
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(memberKey(channel.ID, userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &membership)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Membership{}, false, nil
	}
	if err != nil {
		return domain.Membership{}, false, err
	}
	return membership, true, nil
}

func (c ChannelRepository) Members(channel domain.Channel) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := memberPrefix(channel.ID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var membership domain.Membership
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &membership)
			})
			if err != nil {
				return err
			}
			memberships = append(memberships, membership)
		}
		return nil
	})
	return memberships, err
}
