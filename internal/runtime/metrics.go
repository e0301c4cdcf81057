package runtime

import "sync/atomic"

// metrics holds the scheduler's atomic counters, grounded on the
// teacher's SchedulerStats (runtime/scheduler.go).
type metrics struct {
	created         atomic.Uint64
	completed       atomic.Uint64
	contextSwitches atomic.Uint64
	yields          atomic.Uint64
}

// Snapshot is a point-in-time read of the scheduler's counters, returned
// by Stats.
type Snapshot struct {
	LiveFibers      int64
	FibersCreated   uint64
	FibersCompleted uint64
	ContextSwitches uint64
	Yields          uint64
	Workers         int
	DeadListSize    int
}

// Stats returns a snapshot of the current coordinator's counters. Calling
// it constructs the coordinator (and its worker pool) if this is the
// first call from the process, matching the lazy-init contract shared
// with Spawn/Yield.
func Stats() Snapshot {
	c := coordinatorInstance()
	return Snapshot{
		LiveFibers:      c.liveFiberCount.Load(),
		FibersCreated:   c.metrics.created.Load(),
		FibersCompleted: c.metrics.completed.Load(),
		ContextSwitches: c.metrics.contextSwitches.Load(),
		Yields:          c.metrics.yields.Load(),
		Workers:         c.workerCount(),
		DeadListSize:    c.dead.Len(),
	}
}
