//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mock_registry_test.go -package=ws
package ws

import (
	"kerek/domain"
	"kerek/runtime"
)

// RoomRegistry is what a room session needs from runtime.Registry.
type RoomRegistry interface {
	Register(room domain.RoomID, user domain.UserID) *runtime.Channel
	Unregister(room domain.RoomID, user domain.UserID, ch *runtime.Channel)
	Broadcast(room domain.RoomID, sender domain.UserID, members domain.Members, payload []byte) runtime.Report
	DrainPending(room domain.RoomID, user domain.UserID) [][]byte
	Requeue(room domain.RoomID, user domain.UserID, payloads [][]byte) int
}

var _ RoomRegistry = (*runtime.Registry)(nil)
