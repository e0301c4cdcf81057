package runtime

import "sync"

// deadListNode is one link in the dead list's LIFO chain.
type deadListNode struct {
	fiber *Fiber
	next  *deadListNode
}

// deadList retains every terminated fiber until coordinator shutdown, so
// a joiner can always observe a completed fiber's terminal status without
// racing a reclaimer (spec §3 "Dead list", design note "Dead list
// retention").
type deadList struct {
	mu   sync.Mutex
	head *deadListNode
	size int
}

// Prepend adds f to the front of the list, matching the spec's LIFO
// ordering ("prepend on termination").
func (d *deadList) Prepend(f *Fiber) {
	d.mu.Lock()
	d.head = &deadListNode{fiber: f, next: d.head}
	d.size++
	d.mu.Unlock()
}

func (d *deadList) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

// Clear discards every retained record. Only valid once the coordinator
// has confirmed live_fiber_count == 0 at shutdown; nothing may still be
// joining a dead fiber past this point.
func (d *deadList) Clear() {
	d.mu.Lock()
	d.head = nil
	d.size = 0
	d.mu.Unlock()
}
