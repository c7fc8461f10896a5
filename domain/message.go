// Package domain contains core concepts of the relay.
// This file defines Message events and related rules.
// Messages are immutable once persisted; the relay only carries copies.
package domain

import (
	"encoding/json"
)

// Message is the persisted chat message, also used verbatim as the outbound frame.
type Message struct {
	ID        string `json:"id"`
	RoomID    RoomID `json:"roomId"`
	SenderID  UserID `json:"senderId"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	IsEdited  bool   `json:"isEdited"`
	IsDeleted bool   `json:"isDeleted"`
}

// Encode serializes the message into the payload carried by the relay.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// IncomingFrame is what a client sends on a room connection.
// RoomID and SenderID are only checked against the connection, never trusted.
type IncomingFrame struct {
	Content  string `json:"content" validate:"required"`
	RoomID   RoomID `json:"roomId"`
	SenderID UserID `json:"senderId"`
}
