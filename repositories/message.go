package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"kerek/contract"
	"kerek/domain"
	"log/slog"
	"net/url"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

var _ contract.MessageStore = MessageRepository{}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
	now func() time.Time
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log, now: time.Now}
}

func messagePrefix(room domain.RoomID) string {
	return fmt.Sprintf("msg:%s:", url.QueryEscape(string(room)))
}

// PersistMessage stores a new message and returns it with its server assigned
// id and timestamps. The id is a time-based UUID, creation and update times
// are equal until the message is edited.
//
// The key is "msg:{room}:{timestamp_padded}:{uuid}" so that a prefix scan
// returns a room's history in chronological order (19-digit zero padding).
func (m MessageRepository) PersistMessage(_ context.Context, room domain.RoomID, sender domain.UserID, content string) (domain.Message, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return domain.Message{}, fmt.Errorf("message id: %w", err)
	}
	at := m.now().UTC()
	message := domain.Message{
		ID:        id.String(),
		RoomID:    room,
		SenderID:  sender,
		Content:   content,
		CreatedAt: at.Unix(),
		UpdatedAt: at.Unix(),
	}
	bytes, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, err
	}
	key := fmt.Sprintf("%s%019d:%s", messagePrefix(room), at.UnixNano(), message.ID)
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	return message, nil
}

// ListMessages returns a page of a room's history, newest first.
// The returned cursor is the position of the last message of the page and can
// be passed back to fetch the next (older) page. A limit <= 0 means no limit.
func (m MessageRepository) ListMessages(_ context.Context, room domain.RoomID, cursor *string, limit int) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := messagePrefix(room)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Newest possible position, then walk backwards
			seekKey = append([]byte(prefixStr), []byte("9999999999999999999")...)
		default:
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[len(prefix):]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", limit))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			err := item.Value(func(value []byte) error {
				var message domain.Message
				if err := json.Unmarshal(value, &message); err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if lastKey == "" {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}
