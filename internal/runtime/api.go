package runtime

// Handle is an opaque reference to a spawned fiber, returned by Spawn and
// consumed by Join (spec §6: "Header surface is the three functions above
// plus an opaque fiber handle type").
type Handle struct {
	fiber *Fiber
}

// Spawn allocates a fiber in status NEW, places it on a ready queue, and
// returns a handle a caller can later Join. Grounded on the teacher's
// Scheduler.Spawn (runtime/scheduler.go).
func Spawn(name string, entry Entry, arg any) Handle {
	c := coordinatorInstance()

	live := c.liveFiberCount.Load()
	if live >= c.fiberCap() {
		fatalf("Spawn", "live fiber cap of %d exceeded", c.fiberCap())
	}

	id := c.nextFiberID.Add(1)
	f := newFiber(id, name, entry, arg)
	c.liveFiberCount.Add(1)
	c.metrics.created.Add(1)

	caller := currentFiber()
	if caller == nil {
		// Called from the main goroutine, which has no local queue.
		c.global.Push(f)
		logger().Debugw("fiber spawned", "fiber_id", f.ID, "name", f.Name, "placement", "global")
		return Handle{fiber: f}
	}

	w := caller.runningOn
	avg := int(live) / c.workerCount()
	target := avg + 1
	if target > localQueueCapacity {
		target = localQueueCapacity
	}

	if w.local.Len() >= (target*3)/2 {
		// Push the new fiber and shed the caller's queue down to target,
		// both under the global queue's mutex so external observers see
		// one monotonic batch (spec §4.1).
		c.global.Lock()
		c.global.pushLocked(f)
		for w.local.Len() > target {
			shed := w.local.popTail()
			if shed == nil {
				break
			}
			c.global.pushLocked(shed)
		}
		c.global.Unlock()
	} else if !w.local.pushTail(f) {
		c.global.Push(f)
	}

	logger().Debugw("fiber spawned", "fiber_id", f.ID, "name", f.Name, "parent_id", caller.ID)
	return Handle{fiber: f}
}

// Yield returns once the current fiber is dispatched again, after every
// other fiber ahead of it in its local queue has had a turn. Called from
// the main goroutine, which has no local queue to rotate through, it only
// constructs the coordinator if that has not happened yet (spec §4.2).
func Yield() {
	f := currentFiber()
	if f == nil {
		coordinatorInstance()
		return
	}
	w := f.runningOn
	w.local.popExpectHead(f)
	if !w.local.pushTail(f) {
		fatalf("Yield", "fiber %d (%s) could not rotate onto its own local queue", f.ID, f.Name)
	}
	f.parked <- parkYielded
	<-f.resume
}

// Join blocks the caller until target.status == StatusDead. Multiple
// fibers (and the main goroutine) may join the same target concurrently
// (spec §4.3).
func Join(h Handle) {
	target := h.fiber
	if target == nil {
		fatalf("Join", "join called with a zero-value handle")
		return
	}

	caller := currentFiber()
	if caller == nil {
		joinFromMain(target)
		return
	}

	target.statusLock.Lock()
	if target.status == StatusDead {
		target.statusLock.Unlock()
		return
	}

	w := caller.runningOn
	w.local.popExpectHead(caller)

	caller.statusLock.Lock()
	caller.status = StatusWaiting
	caller.statusLock.Unlock()

	target.addWaiterLocked(caller)
	// Hand target.statusLock off to the dispatcher rather than release it
	// here: it must stay held until the worker loop's next iteration,
	// which releases it unconditionally before doing anything else —
	// including refilling or blocking for work — so an empty queue after
	// this join can never leave the target's lock held indefinitely
	// (spec §4.3 step 4, design note "Lock handoff across context switch").
	w.pendingLockedTarget = target

	caller.parked <- parkJoined
	<-caller.resume
}

// joinFromMain implements the main-thread join protocol: a condvar
// rendezvous instead of a dispatcher parking cycle, since the main
// goroutine has no local queue and no dispatcher to hand a lock to
// (spec §4.3 "Protocol (caller is the main thread)").
func joinFromMain(target *Fiber) {
	target.statusLock.Lock()
	if target.status == StatusDead {
		target.statusLock.Unlock()
		return
	}

	c := coordinatorInstance()
	c.mainWaitMu.Lock()
	c.mainWaiting = true
	c.mainWaitMu.Unlock()

	target.addWaiterLocked(nil)
	target.statusLock.Unlock()

	c.mainWaitMu.Lock()
	for c.mainWaiting {
		c.mainWaitCond.Wait()
	}
	c.mainWaitMu.Unlock()
}
