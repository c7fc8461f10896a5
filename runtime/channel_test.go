package runtime

import (
	"kerek/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannel_Queue_Policy_Rejects_When_Full(t *testing.T) {
	req := require.New(t)
	ch := newChannel(2, OverflowQueue)

	req.True(ch.Send([]byte("a")))
	req.True(ch.Send([]byte("b")))

	// When the buffer is full
	req.False(ch.Send([]byte("c")))

	// Then nothing was evicted
	req.Equal("a", string(<-ch.C()))
	req.Equal("b", string(<-ch.C()))
}

func TestChannel_Drop_Oldest_Policy_Evicts(t *testing.T) {
	req := require.New(t)
	ch := newChannel(2, OverflowDropOldest)

	req.True(ch.Send([]byte("a")))
	req.True(ch.Send([]byte("b")))
	req.True(ch.Send([]byte("c")))

	req.Equal(2, ch.Len())
	req.Equal("b", string(<-ch.C()))
	req.Equal("c", string(<-ch.C()))
}

func TestChannel_Send_After_Close(t *testing.T) {
	req := require.New(t)
	ch := newChannel(1, OverflowQueue)
	ch.close()
	ch.close()

	req.False(ch.Send([]byte("late")))
	_, open := <-ch.C()
	req.False(open)
}

func TestParseOverflowPolicy(t *testing.T) {
	req := require.New(t)

	policy, err := ParseOverflowPolicy("")
	req.NoError(err)
	req.Equal(OverflowQueue, policy)

	policy, err = ParseOverflowPolicy("Drop-Oldest")
	req.NoError(err)
	req.Equal(OverflowDropOldest, policy)
	req.Equal("drop-oldest", policy.String())

	_, err = ParseOverflowPolicy("block")
	req.ErrorIs(err, errors.ErrUnknownPolicy)
}
