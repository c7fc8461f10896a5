package runtime

import (
	"kerek/contract"
	"kerek/domain"
	"slices"
	"sync"
)

// Outcome of a single delivery attempt.
type Outcome int

const (
	Delivered Outcome = iota
	Queued
)

func (o Outcome) String() string {
	if o == Delivered {
		return "delivered"
	}
	return "queued"
}

// Report sums the outcomes of a broadcast.
type Report struct {
	Delivered int
	Queued    int
	// Evicted counts pending entries dropped to respect the per user cap
	Evicted int
}

type Stats struct {
	Rooms    int
	Channels int
	Pending  int
}

type RegistryConfig struct {
	BufferSize        int
	Policy            OverflowPolicy
	MaxPendingPerUser int // 0 means unbounded
}

type roomState struct {
	channels map[domain.UserID][]*Channel
	pending  map[domain.UserID][][]byte
}

func newRoomState() *roomState {
	return &roomState{
		channels: make(map[domain.UserID][]*Channel),
		pending:  make(map[domain.UserID][][]byte),
	}
}

func (s *roomState) empty() bool {
	return len(s.channels) == 0 && len(s.pending) == 0
}

// Registry maps rooms to the live channels and pending queues of their users.
// A room entry exists as long as it holds at least one channel or one pending payload.
// Nothing under its lock performs I/O.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]*roomState
	presence contract.PresenceView
	config   RegistryConfig
}

// NewRegistry builds an empty registry. presence may be nil, every user
// with a live channel is then considered reachable.
func NewRegistry(presence contract.PresenceView, config RegistryConfig) *Registry {
	return &Registry{
		rooms:    make(map[domain.RoomID]*roomState),
		presence: presence,
		config:   config,
	}
}

// Register adds a new live channel for user in room and returns it.
func (r *Registry) Register(room domain.RoomID, user domain.UserID) *Channel {
	ch := newChannel(r.config.BufferSize, r.config.Policy)

	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[room]
	if !ok {
		state = newRoomState()
		r.rooms[room] = state
	}
	state.channels[user] = append(state.channels[user], ch)
	return ch
}

// Unregister removes and closes ch. Unknown channels are ignored.
func (r *Registry) Unregister(room domain.RoomID, user domain.UserID, ch *Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[room]
	if !ok {
		return
	}
	channels := state.channels[user]
	idx := slices.Index(channels, ch)
	if idx < 0 {
		return
	}
	channels = slices.Delete(channels, idx, idx+1)
	if len(channels) == 0 {
		delete(state.channels, user)
	} else {
		state.channels[user] = channels
	}
	ch.close()

	if state.empty() {
		delete(r.rooms, room)
	}
}

// DeliverOrQueue hands payload to every live channel of recipient, or appends
// it to the recipient's pending queue when none accepted it.
func (r *Registry) DeliverOrQueue(room domain.RoomID, recipient domain.UserID, payload []byte) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcome, _ := r.deliverLocked(room, recipient, payload)
	return outcome
}

// Broadcast delivers payload to every member but sender.
func (r *Registry) Broadcast(room domain.RoomID, sender domain.UserID, members domain.Members, payload []byte) Report {
	recipients := members.Others(sender)

	r.mu.Lock()
	defer r.mu.Unlock()

	var report Report
	for _, recipient := range recipients {
		outcome, evicted := r.deliverLocked(room, recipient, payload)
		switch outcome {
		case Delivered:
			report.Delivered++
		case Queued:
			report.Queued++
		}
		report.Evicted += evicted
	}
	return report
}

func (r *Registry) deliverLocked(room domain.RoomID, recipient domain.UserID, payload []byte) (Outcome, int) {
	state, ok := r.rooms[room]
	if ok && r.reachable(recipient) {
		delivered := false
		for _, ch := range state.channels[recipient] {
			if ch.Send(payload) {
				delivered = true
			}
		}
		if delivered {
			return Delivered, 0
		}
	}
	if !ok {
		state = newRoomState()
		r.rooms[room] = state
	}
	queue, evicted := r.capped(append(state.pending[recipient], payload))
	state.pending[recipient] = queue
	return Queued, evicted
}

// capped drops the oldest entries beyond MaxPendingPerUser.
func (r *Registry) capped(queue [][]byte) ([][]byte, int) {
	limit := r.config.MaxPendingPerUser
	if limit <= 0 || len(queue) <= limit {
		return queue, 0
	}
	evicted := len(queue) - limit
	return slices.Clone(queue[evicted:]), evicted
}

func (r *Registry) reachable(user domain.UserID) bool {
	return r.presence == nil || r.presence.IsOnline(user)
}

// DrainPending removes and returns the pending queue of user, oldest first.
func (r *Registry) DrainPending(room domain.RoomID, user domain.UserID) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[room]
	if !ok {
		return nil
	}
	queue := state.pending[user]
	delete(state.pending, user)
	if state.empty() {
		delete(r.rooms, room)
	}
	return queue
}

// Requeue puts payloads taken by DrainPending back in front of the pending
// queue of user, ahead of anything queued since. It returns the number of
// entries evicted by the cap.
func (r *Registry) Requeue(room domain.RoomID, user domain.UserID, payloads [][]byte) int {
	if len(payloads) == 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[room]
	if !ok {
		state = newRoomState()
		r.rooms[room] = state
	}
	queue, evicted := r.capped(slices.Concat(payloads, state.pending[user]))
	state.pending[user] = queue
	return evicted
}

func (r *Registry) HasRoom(room domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[room]
	return ok
}

func (r *Registry) ChannelCount(room domain.RoomID, user domain.UserID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if state, ok := r.rooms[room]; ok {
		return len(state.channels[user])
	}
	return 0
}

func (r *Registry) PendingCount(room domain.RoomID, user domain.UserID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if state, ok := r.rooms[room]; ok {
		return len(state.pending[user])
	}
	return 0
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{Rooms: len(r.rooms)}
	for _, state := range r.rooms {
		for _, channels := range state.channels {
			stats.Channels += len(channels)
		}
		for _, queue := range state.pending {
			stats.Pending += len(queue)
		}
	}
	return stats
}
