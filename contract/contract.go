//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"kerek/domain"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging during supervision, avoiding manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// TokenValidator checks the signature and expiry of a bearer token.
type TokenValidator interface {
	ValidateToken(token string) (domain.Identity, error)
}

// MembershipProvider answers who may connect to a room.
// Unknown rooms return errors.ErrRoomNotFound.
type MembershipProvider interface {
	GetRoomMembers(ctx context.Context, room domain.RoomID) (domain.Members, error)
}

// MessageStore persists a message and assigns its id and timestamps.
type MessageStore interface {
	PersistMessage(ctx context.Context, room domain.RoomID, sender domain.UserID, content string) (domain.Message, error)
}

// PresenceStore records the coarse online/offline status of a user.
type PresenceStore interface {
	SetUserOnline(ctx context.Context, user domain.UserID, online bool) error
}

// PresenceView is the read side of the presence authority.
type PresenceView interface {
	IsOnline(user domain.UserID) bool
}
