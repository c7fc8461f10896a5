package domain

import (
	"encoding/json"
	"fmt"
	"kerek/errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParseFrame decodes and validates a raw inbound text frame for a connection
// bound to room and authenticated as identity.
//
// Malformed or invalid frames wrap errors.ErrInvalidFrame and may be dropped.
// A frame claiming another sender or another room wraps ErrSenderSpoofed or
// ErrRoomMismatch: those are protocol violations, not parse errors.
func ParseFrame(raw []byte, room RoomID, identity Identity, maxContentLength int, now time.Time) (PostMessageCommand, error) {
	var frame IncomingFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return PostMessageCommand{}, fmt.Errorf("%w: %v", errors.ErrInvalidFrame, err)
	}
	if err := validate.Struct(frame); err != nil {
		return PostMessageCommand{}, fmt.Errorf("%w: %v", errors.ErrInvalidFrame, err)
	}
	if maxContentLength > 0 {
		if err := validate.Var(frame.Content, "max="+strconv.Itoa(maxContentLength)); err != nil {
			return PostMessageCommand{}, fmt.Errorf("%w: content longer than %d characters", errors.ErrInvalidFrame, maxContentLength)
		}
	}
	if frame.SenderID != "" && frame.SenderID != identity.UserID {
		return PostMessageCommand{}, fmt.Errorf("%w: claimed %q, authenticated %q",
			errors.ErrSenderSpoofed, frame.SenderID, identity.UserID)
	}
	if frame.RoomID != "" && frame.RoomID != room {
		return PostMessageCommand{}, fmt.Errorf("%w: claimed %q, connected to %q",
			errors.ErrRoomMismatch, frame.RoomID, room)
	}
	return PostMessageCommand{
		Room:       room,
		SenderID:   identity.UserID,
		Content:    frame.Content,
		ReceivedAt: now,
	}, nil
}
