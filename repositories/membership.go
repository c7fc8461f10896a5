package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"kerek/contract"
	"kerek/domain"
	errs "kerek/errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

var _ contract.MembershipProvider = MembershipRepository{}

type MembershipRepository struct {
	db *badger.DB
}

func NewMembershipRepository(db *badger.DB) MembershipRepository {
	return MembershipRepository{db: db}
}

// Room is the stored participant list of a conversation or group.
type Room struct {
	ID        domain.RoomID   `json:"id"`
	Members   []domain.UserID `json:"members"`
	CreatedAt time.Time       `json:"createdAt"`
}

const roomPrefix = "room:"

func roomKey(room domain.RoomID) []byte {
	return []byte(roomPrefix + url.QueryEscape(string(room)))
}

// CreateRoom persists a room with its initial participants.
func (r MembershipRepository) CreateRoom(_ context.Context, room domain.RoomID, members []domain.UserID) error {
	if len(members) == 0 {
		return errs.ErrEmptyMembers
	}
	data, err := json.Marshal(Room{ID: room, Members: lo.Uniq(members), CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(roomKey(room)); err == nil {
			return errs.ErrRoomExists
		}
		return txn.Set(roomKey(room), data)
	})
}

// AddMember adds a participant to an existing room, it is a no-op for members.
func (r MembershipRepository) AddMember(_ context.Context, room domain.RoomID, user domain.UserID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		stored, err := getRoom(txn, room)
		if err != nil {
			return err
		}
		if lo.Contains(stored.Members, user) {
			return nil
		}
		stored.Members = append(stored.Members, user)
		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		return txn.Set(roomKey(room), data)
	})
}

// GetRoomMembers returns the participants of a room or errors.ErrRoomNotFound.
func (r MembershipRepository) GetRoomMembers(_ context.Context, room domain.RoomID) (domain.Members, error) {
	var stored Room
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		stored, err = getRoom(txn, room)
		return err
	})
	if err != nil {
		return nil, err
	}
	return domain.NewMembers(stored.Members...), nil
}

// ListRooms returns every stored room sorted by id.
func (r MembershipRepository) ListRooms(_ context.Context) ([]Room, error) {
	var rooms []Room
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(roomPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var room Room
				if err := json.Unmarshal(val, &room); err != nil {
					return err
				}
				rooms = append(rooms, room)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	sort.Slice(rooms, func(i, j int) bool {
		return strings.Compare(string(rooms[i].ID), string(rooms[j].ID)) < 0
	})
	return rooms, err
}

func getRoom(txn *badger.Txn, room domain.RoomID) (Room, error) {
	item, err := txn.Get(roomKey(room))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Room{}, fmt.Errorf("%w: %s", errs.ErrRoomNotFound, room)
	}
	if err != nil {
		return Room{}, err
	}
	var stored Room
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &stored)
	})
	return stored, err
}
