package runtime

import "sync"

// globalQueueNode is one link in the global queue's FIFO chain.
type globalQueueNode struct {
	fiber *Fiber
	next  *globalQueueNode
}

// globalQueue is the mutex-protected, unbounded FIFO shared by every
// worker: overflow from local queues, externally submitted fibers (spawn
// from the main goroutine), and waiter wake-ups all funnel through it.
// Grounded on the teacher's Monitor (mutex + sync.Cond wait/notify), see
// DESIGN.md.
type globalQueue struct {
	mu        sync.Mutex
	notEmpty  sync.Cond
	head, tail *globalQueueNode
	size      int
}

func newGlobalQueue() *globalQueue {
	q := &globalQueue{}
	q.notEmpty.L = &q.mu
	return q
}

// Lock/Unlock expose the queue's mutex directly so callers that need to
// batch an operation across the queue and something else (spawn's
// "push and shed" batch, the termination trampoline's "drain waiters and
// enqueue" batch) can do so under a single critical section, per spec
// §4.1 and §4.5 ("both operations occur under the global queue's mutex").
func (q *globalQueue) Lock()   { q.mu.Lock() }
func (q *globalQueue) Unlock() { q.mu.Unlock() }

// pushLocked appends f to the tail. Caller must hold q's lock.
func (q *globalQueue) pushLocked(f *Fiber) {
	n := &globalQueueNode{fiber: f}
	if q.tail == nil {
		q.head, q.tail = n, n
	} else {
		q.tail.next = n
		q.tail = n
	}
	q.size++
	q.notEmpty.Signal()
}

// popLocked removes and returns the head, or nil if empty. Caller must
// hold q's lock.
func (q *globalQueue) popLocked() *Fiber {
	if q.head == nil {
		return nil
	}
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.size--
	return n.fiber
}

func (q *globalQueue) sizeLocked() int { return q.size }

// Push appends f under its own critical section; used by callers that do
// not need to batch it with anything else.
func (q *globalQueue) Push(f *Fiber) {
	q.mu.Lock()
	q.pushLocked(f)
	q.mu.Unlock()
}

// waitNotEmptyOrStopped blocks on the not-empty condition while the queue
// is empty and the coordinator is still running, per spec §4.4 step 3.
// Caller must hold q's lock; returns with the lock still held.
func (q *globalQueue) waitNotEmptyOrStopped(stopped func() bool) {
	for q.size == 0 && !stopped() {
		q.notEmpty.Wait()
	}
}

// BroadcastAll wakes every worker blocked in waitNotEmptyOrStopped, used
// at shutdown to unblock idle workers even though the queue stays empty.
func (q *globalQueue) BroadcastAll() {
	q.mu.Lock()
	q.notEmpty.Broadcast()
	q.mu.Unlock()
}
