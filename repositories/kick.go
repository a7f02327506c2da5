package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"lack-chat/domain"
)

type IKickRepository interface {
	Create(record domain.KickRecord) error
	CountKicks(targetID domain.UserID, channelID domain.ChannelID) (int, error)
	FindByTriple(kickerID, targetID domain.UserID, channelID domain.ChannelID) (bool, error)
	DeleteAll(targetID domain.UserID, channelID domain.ChannelID) error
}

// KickRepository is the append-only ban ledger. The ban level of a
// (target, channel) pair is derived by counting records, never stored.
//
// Key layout: "kick:{channel}:{target}:{kicker}:{uuid}". Channel and target
// lead so that counting and admin resets are single prefix scans; the uuid
// suffix lets the admin full-ban path write several records for one kicker.
type KickRepository struct {
	db *badger.DB
}

func NewKickRepository(db *badger.DB) KickRepository {
	return KickRepository{db: db}
}

func kickPrefix(channelID domain.ChannelID, targetID domain.UserID) []byte {
	return []byte(fmt.Sprintf("kick:%s:%s:", channelID, targetID))
}

func kickTriplePrefix(channelID domain.ChannelID, targetID, kickerID domain.UserID) []byte {
	return []byte(fmt.Sprintf("kick:%s:%s:%s:", channelID, targetID, kickerID))
}

func (k KickRepository) Create(record domain.KickRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal kick record: %w", err)
	}
	key := append(kickTriplePrefix(record.ChannelID, record.TargetID, record.KickerID),
		[]byte(uuid.NewString())...)
	return k.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (k KickRepository) CountKicks(targetID domain.UserID, channelID domain.ChannelID) (int, error) {
	count := 0
	err := k.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := kickPrefix(channelID, targetID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// FindByTriple reports whether this kicker already voted against this target.
func (k KickRepository) FindByTriple(kickerID, targetID domain.UserID, channelID domain.ChannelID) (bool, error) {
	found := false
	err := k.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := kickTriplePrefix(channelID, targetID, kickerID)
		it.Seek(prefix)
		found = it.ValidForPrefix(prefix)
		return nil
	})
	return found, err
}

// DeleteAll is the admin ban reset: every record for the pair goes away.
func (k KickRepository) DeleteAll(targetID domain.UserID, channelID domain.ChannelID) error {
	return k.db.Update(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := kickPrefix(channelID, targetID)
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
