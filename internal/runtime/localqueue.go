package runtime

// localQueueCapacity is the fixed ring buffer size of every worker's local
// queue.
const localQueueCapacity = 256

// localQueue is a fixed-capacity ring buffer of ready fibers owned by
// exactly one worker. In steady state only that worker's own goroutine
// touches it, so it carries no lock; the handoff protocol in worker.go
// and api.go guarantees the owning worker is synchronously blocked
// whenever a fiber's own goroutine is the one mutating it on the worker's
// behalf (see context.go).
type localQueue struct {
	buf        [localQueueCapacity]*Fiber
	head, tail int
	size       int
}

func (q *localQueue) Len() int { return q.size }

func (q *localQueue) Full() bool { return q.size == localQueueCapacity }

func (q *localQueue) Empty() bool { return q.size == 0 }

// pushTail enqueues f at the back. Returns false if the queue is full;
// the caller must fall back to the global queue.
func (q *localQueue) pushTail(f *Fiber) bool {
	if q.Full() {
		return false
	}
	q.buf[q.tail] = f
	f.queueSlot = q.tail
	q.tail = (q.tail + 1) % localQueueCapacity
	q.size++
	return true
}

// peekHead returns the fiber at the front without removing it, or nil if
// empty. The dispatcher uses this rather than popHead to select what to
// run next: the running fiber itself is responsible for popping its own
// head slot once it actually suspends (yields, joins, or terminates),
// exactly mirroring the spec's single-stack model where the dispatcher
// and the fiber share one call stack until that point.
func (q *localQueue) peekHead() *Fiber {
	if q.Empty() {
		return nil
	}
	return q.buf[q.head]
}

// popHead dequeues and returns the fiber at the front, or nil if empty.
func (q *localQueue) popHead() *Fiber {
	if q.Empty() {
		return nil
	}
	f := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % localQueueCapacity
	q.size--
	return f
}

// popTail dequeues and returns the fiber at the back, or nil if empty.
// Used only for shedding into the global queue when a local queue is
// overloaded (spec §4.1 placement policy).
func (q *localQueue) popTail() *Fiber {
	if q.Empty() {
		return nil
	}
	q.tail = (q.tail - 1 + localQueueCapacity) % localQueueCapacity
	f := q.buf[q.tail]
	q.buf[q.tail] = nil
	q.size--
	return f
}

// popExpectHead dequeues the front of the queue and asserts it is f. A
// mismatch is a programming-error invariant violation (spec §7 category
// 1: "local-queue head mismatch on yield/termination") and is fatal.
func (q *localQueue) popExpectHead(f *Fiber) {
	got := q.popHead()
	if got != f {
		fatalf("localQueue.popExpectHead", "head mismatch: expected fiber %d (%s), got %v", f.ID, f.Name, got)
	}
}
