package runtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGlobalQueueFIFOOrder(t *testing.T) {
	q := newGlobalQueue()
	a := newFiber(1, "a", nil, nil)
	b := newFiber(2, "b", nil, nil)

	q.Push(a)
	q.Push(b)

	q.Lock()
	require.Equal(t, 2, q.sizeLocked())
	require.Equal(t, a, q.popLocked())
	require.Equal(t, b, q.popLocked())
	require.Nil(t, q.popLocked())
	q.Unlock()
}

func TestGlobalQueueWaitNotEmptyWakesOnPush(t *testing.T) {
	q := newGlobalQueue()
	var wg sync.WaitGroup
	wg.Add(1)

	var got *Fiber
	go func() {
		defer wg.Done()
		q.Lock()
		q.waitNotEmptyOrStopped(func() bool { return false })
		got = q.popLocked()
		q.Unlock()
	}()

	time.Sleep(10 * time.Millisecond) // give the goroutine time to start waiting
	f := newFiber(1, "f", nil, nil)
	q.Push(f)

	wg.Wait()
	require.Equal(t, f, got)
}

func TestGlobalQueueBroadcastAllWakesWaiters(t *testing.T) {
	q := newGlobalQueue()
	stopped := false
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Lock()
		q.waitNotEmptyOrStopped(func() bool { return stopped })
		q.Unlock()
	}()

	time.Sleep(10 * time.Millisecond)
	q.Lock()
	stopped = true
	q.Unlock()
	q.BroadcastAll()

	wg.Wait()
}
