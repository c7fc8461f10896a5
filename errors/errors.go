package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrMissingToken  = fmt.Errorf("missing token")
	ErrInvalidToken  = fmt.Errorf("invalid or expired token")
	ErrForbidden     = fmt.Errorf("user is not a member of the room")
	ErrRoomNotFound  = fmt.Errorf("room not found")
	ErrRoomExists    = fmt.Errorf("room already exists")
	ErrEmptyMembers  = fmt.Errorf("room needs at least one member")
	ErrInvalidFrame  = fmt.Errorf("invalid inbound frame")
	ErrSenderSpoofed = fmt.Errorf("sender does not match authenticated user")
	ErrRoomMismatch  = fmt.Errorf("frame room does not match connection room")
	ErrUnknownPolicy = fmt.Errorf("unknown overflow policy")
)
