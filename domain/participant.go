// Package domain contains core concepts of the relay.
// This file defines the authenticated participant of a connection.
// No runtime, network, or storage logic should be added here.
package domain

import "time"

// Identity is what a validated token proves about the caller.
// It is established once per connection and never taken from client frames.
type Identity struct {
	UserID    UserID
	ExpiresAt time.Time
}
