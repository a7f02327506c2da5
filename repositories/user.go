package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"lack-chat/domain"
	"lack-chat/errors"
)

type IUserRepository interface {
	Create(user domain.User) error
	GetByID(id domain.UserID) (domain.User, error)
	GetByNickname(nickname string) (domain.User, error)
	GetByIDs(ids []domain.UserID) ([]domain.User, error)
}

// UserRepository stores identities with a nickname secondary index.
// Login creates a user the first time a nickname shows up.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

func userKey(id domain.UserID) []byte {
	return []byte("user:id:" + id)
}

// nicknameKey is a secondary index from nickname to user id.
func nicknameKey(nickname string) []byte {
	return []byte("user:nick:" + nickname)
}

func (u UserRepository) Create(user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return u.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		return txn.Set(nicknameKey(user.Nickname), []byte(user.ID))
	})
}

func (u UserRepository) GetByID(id domain.UserID) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, err
}

func (u UserRepository) GetByNickname(nickname string) (domain.User, error) {
	var id domain.UserID
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nicknameKey(nickname))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = domain.UserID(val)
			return nil
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u.GetByID(id)
}

// GetByIDs resolves a presence snapshot into full users.
// Unknown ids are skipped rather than failing the whole snapshot.
func (u UserRepository) GetByIDs(ids []domain.UserID) ([]domain.User, error) {
	var users []domain.User
	for _, id := range ids {
		user, err := u.GetByID(id)
		if stderrors.Is(err, errors.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
