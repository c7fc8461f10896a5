package runtime

import (
	"fmt"
	"kerek/domain"
	"kerek/mocks"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRegistry() *Registry {
	return NewRegistry(nil, RegistryConfig{BufferSize: 16, Policy: OverflowQueue})
}

func receive(ch *Channel) []string {
	var payloads []string
	for {
		select {
		case p := <-ch.C():
			payloads = append(payloads, string(p))
		default:
			return payloads
		}
	}
}

func TestRegistry_Register_Then_Unregister_Removes_Room(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()

	// Given no room exists
	req.False(registry.HasRoom("r1"))

	// When a user registers
	ch := registry.Register("r1", "alice")

	// Then
	req.True(registry.HasRoom("r1"))
	req.Equal(1, registry.ChannelCount("r1", "alice"))

	// When the same channel leaves
	registry.Unregister("r1", "alice", ch)

	// Then the room is gone and the channel closed
	req.False(registry.HasRoom("r1"))
	_, open := <-ch.C()
	req.False(open)
	req.Equal(Stats{}, registry.Stats())
}

func TestRegistry_Unregister_Unknown_Channel_Is_Ignored(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	ch := registry.Register("r1", "alice")
	other := newChannel(1, OverflowQueue)

	registry.Unregister("r1", "alice", other)
	registry.Unregister("r2", "alice", ch)

	req.Equal(1, registry.ChannelCount("r1", "alice"))
}

func TestRegistry_Broadcast_Reaches_Every_Channel_But_Sender(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	members := domain.NewMembers("u", "v")

	// Given U has one channel and V two
	u := registry.Register("r1", "u")
	v1 := registry.Register("r1", "v")
	v2 := registry.Register("r1", "v")

	// When U broadcasts
	report := registry.Broadcast("r1", "u", members, []byte("hello"))

	// Then both of V's channels received it, U's none
	req.Equal(Report{Delivered: 1}, report)
	req.Equal([]string{"hello"}, receive(v1))
	req.Equal([]string{"hello"}, receive(v2))
	req.Empty(receive(u))
}

func TestRegistry_Pending_Is_Fifo_And_Drained_Once(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	members := domain.NewMembers("u", "v")

	// Given V is not connected
	for i := 0; i < 5; i++ {
		report := registry.Broadcast("r1", "u", members, []byte(fmt.Sprintf("m%d", i)))
		req.Equal(Report{Queued: 1}, report)
	}

	// Then the room is held by the pending queue
	req.True(registry.HasRoom("r1"))
	req.Equal(5, registry.PendingCount("r1", "v"))

	// When V connects and drains
	ch := registry.Register("r1", "v")
	drained := registry.DrainPending("r1", "v")

	// Then every message comes back in order, exactly once
	req.Len(drained, 5)
	for i, p := range drained {
		req.Equal(fmt.Sprintf("m%d", i), string(p))
	}
	req.Empty(registry.DrainPending("r1", "v"))
	req.Zero(registry.PendingCount("r1", "v"))

	// And live traffic now goes to the channel
	req.Equal(Delivered, registry.DeliverOrQueue("r1", "v", []byte("live")))
	req.Equal([]string{"live"}, receive(ch))
}

func TestRegistry_Drain_Tears_Down_Empty_Room(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()

	req.Equal(Queued, registry.DeliverOrQueue("r1", "v", []byte("hi")))
	req.True(registry.HasRoom("r1"))

	drained := registry.DrainPending("r1", "v")

	req.Equal([][]byte{[]byte("hi")}, drained)
	req.False(registry.HasRoom("r1"))
	req.Nil(registry.DrainPending("r1", "v"))
}

func TestRegistry_Room_Kept_While_Pending_Remains(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()

	ch := registry.Register("r1", "u")
	registry.DeliverOrQueue("r1", "v", []byte("hi"))

	// When the only channel leaves
	registry.Unregister("r1", "u", ch)

	// Then the pending entry keeps the room alive
	req.True(registry.HasRoom("r1"))
	req.Equal(Stats{Rooms: 1, Pending: 1}, registry.Stats())
}

func TestRegistry_Full_Channel_Falls_Back_To_Pending(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil, RegistryConfig{BufferSize: 1, Policy: OverflowQueue})
	ch := registry.Register("r1", "v")

	req.Equal(Delivered, registry.DeliverOrQueue("r1", "v", []byte("a")))
	req.Equal(Queued, registry.DeliverOrQueue("r1", "v", []byte("b")))

	// The full channel is not removed
	req.Equal(1, registry.ChannelCount("r1", "v"))
	req.Equal([]string{"a"}, receive(ch))
	req.Equal([][]byte{[]byte("b")}, registry.DrainPending("r1", "v"))
}

func TestRegistry_One_Accepting_Channel_Is_Enough(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil, RegistryConfig{BufferSize: 1, Policy: OverflowQueue})
	full := registry.Register("r1", "v")
	req.True(full.Send([]byte("filler")))
	free := registry.Register("r1", "v")

	req.Equal(Delivered, registry.DeliverOrQueue("r1", "v", []byte("a")))
	req.Equal([]string{"a"}, receive(free))
	req.Zero(registry.PendingCount("r1", "v"))
}

func TestRegistry_Drop_Oldest_Never_Queues(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil, RegistryConfig{BufferSize: 1, Policy: OverflowDropOldest})
	ch := registry.Register("r1", "v")

	req.Equal(Delivered, registry.DeliverOrQueue("r1", "v", []byte("a")))
	req.Equal(Delivered, registry.DeliverOrQueue("r1", "v", []byte("b")))

	req.Equal([]string{"b"}, receive(ch))
	req.Zero(registry.PendingCount("r1", "v"))
}

func TestRegistry_Pending_Cap_Evicts_Oldest(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil, RegistryConfig{BufferSize: 1, MaxPendingPerUser: 2})
	members := domain.NewMembers("u", "v")

	registry.Broadcast("r1", "u", members, []byte("a"))
	registry.Broadcast("r1", "u", members, []byte("b"))
	report := registry.Broadcast("r1", "u", members, []byte("c"))

	req.Equal(Report{Queued: 1, Evicted: 1}, report)
	req.Equal([][]byte{[]byte("b"), []byte("c")}, registry.DrainPending("r1", "v"))
}

func TestRegistry_Unbounded_Pending_Loses_Nothing(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil, RegistryConfig{BufferSize: 64})
	members := domain.NewMembers("u", "v")

	// Given V never connects while U sends more than any former cap
	for i := range 1001 {
		report := registry.Broadcast("r1", "u", members, []byte(fmt.Sprintf("m%d", i)))
		req.Zero(report.Evicted)
	}

	// Then every message is drained, in send order
	drained := registry.DrainPending("r1", "v")
	req.Len(drained, 1001)
	req.Equal("m0", string(drained[0]))
	req.Equal("m1000", string(drained[1000]))
}

func TestRegistry_Requeue_Puts_Payloads_Back_In_Front(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	members := domain.NewMembers("u", "v")

	// Given a drain whose tail could not be written, while a newer message was queued
	registry.Broadcast("r1", "u", members, []byte("a"))
	registry.Broadcast("r1", "u", members, []byte("b"))
	drained := registry.DrainPending("r1", "v")
	registry.Broadcast("r1", "u", members, []byte("c"))

	// When
	evicted := registry.Requeue("r1", "v", drained[1:])

	// Then order is kept
	req.Zero(evicted)
	req.Equal([][]byte{[]byte("b"), []byte("c")}, registry.DrainPending("r1", "v"))
	req.False(registry.HasRoom("r1"))

	req.Zero(registry.Requeue("r1", "v", nil))
	req.False(registry.HasRoom("r1"))
}

func TestRegistry_Requeue_Respects_Cap(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil, RegistryConfig{BufferSize: 1, MaxPendingPerUser: 2})
	registry.DeliverOrQueue("r1", "v", []byte("c"))

	evicted := registry.Requeue("r1", "v", [][]byte{[]byte("a"), []byte("b")})

	req.Equal(1, evicted)
	req.Equal([][]byte{[]byte("b"), []byte("c")}, registry.DrainPending("r1", "v"))
}

func TestRegistry_Offline_User_Gets_Queued(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	presence := mocks.NewMockPresenceView(ctrl)
	registry := NewRegistry(presence, RegistryConfig{BufferSize: 4})

	// Given V still has a channel but is already reported offline
	ch := registry.Register("r1", "v")
	presence.EXPECT().IsOnline(domain.UserID("v")).Return(false)

	// When
	outcome := registry.DeliverOrQueue("r1", "v", []byte("hi"))

	// Then
	req.Equal(Queued, outcome)
	req.Empty(receive(ch))
	req.Equal(1, registry.PendingCount("r1", "v"))
}

func TestRegistry_Concurrent_Broadcasts(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry(nil, RegistryConfig{BufferSize: 1000})
	members := domain.NewMembers("a", "b", "c")
	ch := registry.Register("r1", "c")

	var wg sync.WaitGroup
	for _, sender := range []domain.UserID{"a", "b"} {
		wg.Add(1)
		go func(sender domain.UserID) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				registry.Broadcast("r1", sender, members, []byte(fmt.Sprintf("%s-%d", sender, i)))
			}
		}(sender)
	}
	wg.Wait()

	// Then C received every message once and the absent senders got each other's as pending
	req.Len(receive(ch), 200)
	req.Equal(100, registry.PendingCount("r1", "a"))
	req.Equal(100, registry.PendingCount("r1", "b"))
}
