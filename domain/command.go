package domain

import (
	"time"
)

// PostMessageCommand is an accepted inbound frame bound to the
// connection's room and authenticated sender.
type PostMessageCommand struct {
	Room       RoomID
	SenderID   UserID
	Content    string
	ReceivedAt time.Time
}
