package runtime

import (
	stdruntime "runtime"
)

// Worker is one OS-thread-pinned dispatcher: it owns exactly one local
// queue and runs the dispatch loop for as long as the coordinator is
// running. Grounded on the teacher's worker(id int) goroutine plus
// workersDone sync.WaitGroup (runtime/scheduler.go).
type Worker struct {
	id          int
	coordinator *Coordinator
	local       localQueue

	// pendingLockedTarget is the deferred-unlock slot described in spec
	// design note "Lock handoff across context switch": a fiber joining
	// another hands this worker the target's already-held status_lock.
	// It is released unconditionally at the top of the next run() loop
	// iteration, before refill/wait-for-work, so it never stays held
	// across a block on an empty queue.
	pendingLockedTarget *Fiber
}

func newWorker(id int, c *Coordinator) *Worker {
	return &Worker{id: id, coordinator: c}
}

// run is the dispatch loop (spec §4.4). It exits once the global queue is
// observed empty after the coordinator has moved to stateStopped.
func (w *Worker) run() {
	stdruntime.LockOSThread()
	defer stdruntime.UnlockOSThread()
	pinWorkerToCPU(w.id)

	for {
		// The previous dispatch may have parked a joiner holding its
		// target's status_lock (api.go's Join, "Lock handoff across
		// context switch"). That lock must be released before this
		// worker does anything else, including refill/wait — otherwise,
		// if the queue is now empty, the worker blocks in
		// waitForWorkOrShutdown while still holding a lock the awaited
		// fiber needs to reach DEAD, deadlocking both sides.
		w.releasePendingLock()

		avg := int(w.coordinator.liveFiberCount.Load()) / w.coordinator.workerCount()
		target := avg + 1
		if target > localQueueCapacity {
			target = localQueueCapacity
		}

		if w.local.Len() <= target/2 {
			w.refill(target)
		}

		if w.local.Empty() {
			if w.waitForWorkOrShutdown() {
				return
			}
			continue
		}

		next := w.local.peekHead()
		w.dispatch(next)
	}
}

// refill pulls fibers from the global queue onto the local queue until it
// reaches target or the global queue runs dry (spec §4.4 step 2).
func (w *Worker) refill(target int) {
	gq := w.coordinator.global
	gq.Lock()
	for w.local.Len() < target {
		f := gq.popLocked()
		if f == nil {
			break
		}
		if !w.local.pushTail(f) {
			gq.pushLocked(f)
			break
		}
	}
	gq.Unlock()
}

// waitForWorkOrShutdown blocks on the global queue's not-empty condition
// while it is empty and the coordinator is running (spec §4.4 step 3).
// Returns true if the caller should exit the dispatch loop.
func (w *Worker) waitForWorkOrShutdown() bool {
	gq := w.coordinator.global
	gq.Lock()
	defer gq.Unlock()
	gq.waitNotEmptyOrStopped(func() bool { return w.coordinator.state() != stateRunning })
	return gq.sizeLocked() == 0
}

func (w *Worker) releasePendingLock() {
	if w.pendingLockedTarget != nil {
		w.pendingLockedTarget.statusLock.Unlock()
		w.pendingLockedTarget = nil
	}
}

// dispatch transfers control to f: first-run via a fresh goroutine for
// StatusNew, or a resume signal for StatusRunning. It returns only once f
// has parked again (yielded, joined, or terminated).
func (w *Worker) dispatch(f *Fiber) {
	status := f.getStatus()
	f.runningOn = w

	switch status {
	case StatusNew:
		f.statusLock.Lock()
		f.status = StatusRunning
		f.statusLock.Unlock()
		f.started = true
		go w.runFiber(f)
	case StatusRunning:
		// already started; its goroutine is blocked on f.resume.
	default:
		fatalf("Worker.dispatch", "fiber %d (%s) has status %s at dispatch time", f.ID, f.Name, status)
		return
	}

	w.coordinator.metrics.contextSwitches.Add(1)
	f.resume <- struct{}{}
	reason := <-f.parked
	if reason == parkYielded {
		w.coordinator.metrics.yields.Add(1)
	}
}

// runFiber is the body of a fiber's dedicated goroutine: it blocks until
// first dispatched, runs the entry function with panics confined to this
// boundary, then runs the termination trampoline.
func (w *Worker) runFiber(f *Fiber) {
	<-f.resume
	registerCurrentFiber(f)

	func() {
		defer func() {
			if r := recover(); r != nil {
				f.panicValue = r
			}
		}()
		f.entry(f.arg)
	}()

	if f.panicValue != nil {
		// Undefined behavior per spec: an entry function may not throw
		// across the context switch. Fail loudly rather than run the
		// termination trampoline against a fiber in an unknown state.
		fatalf("Worker.runFiber", "fiber %d (%s) entry function panicked: %v", f.ID, f.Name, f.panicValue)
		return
	}

	w.terminateFiber(f)
	unregisterCurrentFiber()
	f.parked <- parkTerminated
}

// terminateFiber runs the termination trampoline (spec §4.5 steps 2-6);
// step 7's "stack-switch back to the dispatcher" is simply this
// goroutine returning after sending parkTerminated in runFiber, since Go
// reclaims a finished goroutine's stack without help.
func (w *Worker) terminateFiber(f *Fiber) {
	w.local.popExpectHead(f)

	f.statusLock.Lock()
	f.status = StatusDead
	w.coordinator.liveFiberCount.Add(-1)
	waiters := f.drainWaitersLocked()

	gq := w.coordinator.global
	gq.Lock()
	for _, waiter := range waiters {
		if waiter == nil {
			w.coordinator.wakeMainLocked()
			continue
		}
		waiter.statusLock.Lock()
		waiter.status = StatusRunning
		waiter.statusLock.Unlock()
		gq.pushLocked(waiter)
	}
	gq.Unlock()
	f.statusLock.Unlock()

	w.coordinator.dead.Prepend(f)
	w.coordinator.metrics.completed.Add(1)
	logger().Debugw("fiber terminated", "fiber_id", f.ID, "name", f.Name, "worker_id", w.id)
}
