package main

import (
	"encoding/json"
	"fmt"
	"kerek/domain"
	"kerek/repositories"
	"strings"

	"github.com/mama165/sdk-go/database"
)

// RelayMapper renders relay keys in the badger debug inspector.
func RelayMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, "msg:"):
		row.Type = "MESSAGE"
		var message domain.Message
		if err := json.Unmarshal(val, &message); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Detail = fmt.Sprintf("%s: %s", message.SenderID, message.Content)
	case strings.HasPrefix(key, "room:"):
		row.Type = "ROOM"
		var room repositories.Room
		if err := json.Unmarshal(val, &room); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Detail = fmt.Sprintf("%d members", len(room.Members))
	case strings.HasPrefix(key, "presence:"):
		row.Type = "PRESENCE"
		var status repositories.UserStatus
		if err := json.Unmarshal(val, &status); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Detail = fmt.Sprintf("online=%t", status.Online)
	}
	return row
}
