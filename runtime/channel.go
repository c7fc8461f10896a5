package runtime

import (
	"fmt"
	"kerek/errors"
	"strings"
	"sync"
)

// OverflowPolicy tells a Channel what to do with a payload when its buffer is full.
type OverflowPolicy int

const (
	// OverflowQueue rejects the payload, the registry then falls back to the pending queue
	OverflowQueue OverflowPolicy = iota
	// OverflowDropOldest evicts the oldest buffered payload to make room
	OverflowDropOldest
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowDropOldest:
		return "drop-oldest"
	default:
		return "queue"
	}
}

func ParseOverflowPolicy(value string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "queue":
		return OverflowQueue, nil
	case "drop-oldest":
		return OverflowDropOldest, nil
	default:
		return OverflowQueue, fmt.Errorf("%w: %q", errors.ErrUnknownPolicy, value)
	}
}

// Channel is the bounded outbound path to one live connection.
// Only the registry closes it, the connection only receives.
type Channel struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
	policy OverflowPolicy
}

func newChannel(size int, policy OverflowPolicy) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{ch: make(chan []byte, size), policy: policy}
}

// C is the receive end, closed once the channel is unregistered.
func (c *Channel) C() <-chan []byte {
	return c.ch
}

// Send never blocks. It reports whether the payload was accepted.
func (c *Channel) Send(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.ch <- payload:
		return true
	default:
	}
	if c.policy != OverflowDropOldest {
		return false
	}
	select {
	case <-c.ch:
	default:
	}
	select {
	case c.ch <- payload:
		return true
	default:
		return false
	}
}

func (c *Channel) Len() int {
	return len(c.ch)
}

func (c *Channel) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}
