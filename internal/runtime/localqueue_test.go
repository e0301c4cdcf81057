package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalQueueFIFOOrder(t *testing.T) {
	var q localQueue
	a := newFiber(1, "a", nil, nil)
	b := newFiber(2, "b", nil, nil)
	c := newFiber(3, "c", nil, nil)

	require.True(t, q.pushTail(a))
	require.True(t, q.pushTail(b))
	require.True(t, q.pushTail(c))
	require.Equal(t, 3, q.Len())

	require.Equal(t, a, q.peekHead())
	require.Equal(t, a, q.popHead())
	require.Equal(t, b, q.popHead())
	require.Equal(t, c, q.popHead())
	require.True(t, q.Empty())
	require.Nil(t, q.popHead())
}

func TestLocalQueuePopTailSheds(t *testing.T) {
	var q localQueue
	a := newFiber(1, "a", nil, nil)
	b := newFiber(2, "b", nil, nil)
	q.pushTail(a)
	q.pushTail(b)

	require.Equal(t, b, q.popTail())
	require.Equal(t, 1, q.Len())
	require.Equal(t, a, q.popHead())
}

func TestLocalQueueRejectsPushBeyondCapacity(t *testing.T) {
	var q localQueue
	for i := 0; i < localQueueCapacity; i++ {
		require.True(t, q.pushTail(newFiber(uint64(i), "f", nil, nil)))
	}
	require.True(t, q.Full())
	require.False(t, q.pushTail(newFiber(999, "overflow", nil, nil)))
}

func TestLocalQueueWrapsAroundRingBuffer(t *testing.T) {
	var q localQueue
	// Push and pop repeatedly so head/tail wrap past the array bound.
	for round := 0; round < 3; round++ {
		for i := 0; i < localQueueCapacity-1; i++ {
			require.True(t, q.pushTail(newFiber(uint64(i), "f", nil, nil)))
		}
		for i := 0; i < localQueueCapacity-1; i++ {
			require.NotNil(t, q.popHead())
		}
		require.True(t, q.Empty())
	}
}
