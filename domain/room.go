package domain

import "github.com/samber/lo"

// RoomID identifies a conversation or a group.
type RoomID string

// UserID identifies a participant.
type UserID string

// Members is the set of users allowed to connect to a room.
type Members map[UserID]struct{}

func NewMembers(users ...UserID) Members {
	m := make(Members, len(users))
	for _, u := range users {
		m[u] = struct{}{}
	}
	return m
}

func (m Members) Contains(user UserID) bool {
	_, ok := m[user]
	return ok
}

// Others returns every member except the given one.
func (m Members) Others(user UserID) []UserID {
	return lo.Filter(lo.Keys(m), func(u UserID, _ int) bool {
		return u != user
	})
}
