package runtime

import (
	"context"
	"kerek/contract"
	"kerek/domain"
	"log/slog"
	"sync"
)

// Presence counts the live sessions of every user, room and presence
// connections alike. The store only sees the first connect and the last
// disconnect of a user.
type Presence struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]int
	store    contract.PresenceStore
	log      *slog.Logger
}

func NewPresence(store contract.PresenceStore, log *slog.Logger) *Presence {
	return &Presence{
		sessions: make(map[domain.UserID]int),
		store:    store,
		log:      log,
	}
}

func (p *Presence) Connect(ctx context.Context, user domain.UserID) {
	p.mu.Lock()
	p.sessions[user]++
	first := p.sessions[user] == 1
	p.mu.Unlock()

	if first {
		p.write(ctx, user, true)
	}
}

// Disconnect is a no-op for a user without sessions.
func (p *Presence) Disconnect(ctx context.Context, user domain.UserID) {
	p.mu.Lock()
	count, ok := p.sessions[user]
	if !ok {
		p.mu.Unlock()
		return
	}
	last := count == 1
	if last {
		delete(p.sessions, user)
	} else {
		p.sessions[user] = count - 1
	}
	p.mu.Unlock()

	if last {
		p.write(ctx, user, false)
	}
}

func (p *Presence) IsOnline(user domain.UserID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sessions[user] > 0
}

func (p *Presence) OnlineCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}

func (p *Presence) write(ctx context.Context, user domain.UserID, online bool) {
	if err := p.store.SetUserOnline(ctx, user, online); err != nil {
		p.log.Error("Unable to update presence", "user", user, "online", online, "error", err)
	}
}
