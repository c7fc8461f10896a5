package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"kerek/contract"
	"kerek/domain"
	"net/url"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// UserStatus is the last coarse presence state written for a user.
type UserStatus struct {
	Online    bool  `json:"online"`
	UpdatedAt int64 `json:"updatedAt"`
}

var _ contract.PresenceStore = PresenceRepository{}

type PresenceRepository struct {
	db *badger.DB
}

func NewPresenceRepository(db *badger.DB) PresenceRepository {
	return PresenceRepository{db: db}
}

func presenceKey(user domain.UserID) []byte {
	return []byte("presence:" + url.QueryEscape(string(user)))
}

func (p PresenceRepository) SetUserOnline(_ context.Context, user domain.UserID, online bool) error {
	data, err := json.Marshal(UserStatus{Online: online, UpdatedAt: time.Now().Unix()})
	if err != nil {
		return err
	}
	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(presenceKey(user), data)
	})
	if err != nil {
		return fmt.Errorf("set presence of %s: %w", user, err)
	}
	return nil
}

// GetUserStatus returns the stored status, users never seen are offline.
func (p PresenceRepository) GetUserStatus(_ context.Context, user domain.UserID) (UserStatus, error) {
	var status UserStatus
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(presenceKey(user))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &status)
		})
	})
	return status, err
}
