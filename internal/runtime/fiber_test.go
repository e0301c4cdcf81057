package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusNew, "NEW"},
		{StatusRunning, "RUNNING"},
		{StatusWaiting, "WAITING"},
		{StatusDead, "DEAD"},
		{Status(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestFiberWaiterListDrainsInLIFOOrder(t *testing.T) {
	target := newFiber(1, "target", func(any) {}, nil)
	a := newFiber(2, "a", func(any) {}, nil)
	b := newFiber(3, "b", func(any) {}, nil)

	target.statusLock.Lock()
	target.addWaiterLocked(a)
	target.addWaiterLocked(b)
	target.addWaiterLocked(nil) // main goroutine
	waiters := target.drainWaitersLocked()
	target.statusLock.Unlock()

	require.Len(t, waiters, 3)
	require.Nil(t, waiters[0])
	require.Equal(t, b, waiters[1])
	require.Equal(t, a, waiters[2])
	require.Nil(t, target.waiterHead)
}

func TestNewFiberStartsInStatusNew(t *testing.T) {
	f := newFiber(1, "f", func(any) {}, nil)
	require.Equal(t, StatusNew, f.getStatus())
	require.False(t, f.started)
}
