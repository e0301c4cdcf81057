package runtime

import (
	stdruntime "runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/automaxprocs/maxprocs"
)

// runState is the coordinator's lifecycle state (spec §3 Coordinator).
type runState int32

const (
	stateInit runState = iota
	stateRunning
	stateStopped
)

// defaultFiberCap is the hard limit on simultaneously live fibers (spec
// §5 "Resource quotas").
const defaultFiberCap = 15000

// Coordinator is the process-wide singleton owning the worker pool, the
// global queue, the dead list, and the main-thread join rendezvous.
// Grounded on the teacher's JVM struct (lazily-built global singleton
// holding threads/monitors/heap, `running atomic.Bool`) and
// runtime/scheduler.go's Start/Stop.
type Coordinator struct {
	workers []*Worker
	workersWG sync.WaitGroup
	global  *globalQueue
	dead    *deadList

	runStateVal    atomic.Int32
	liveFiberCount atomic.Int64
	nextFiberID    atomic.Uint64

	// mainWaitMu/mainWaitCond/mainWaiting implement the main-thread join
	// rendezvous (spec §4.3 "Protocol (caller is the main thread)").
	mainWaitMu   sync.Mutex
	mainWaitCond sync.Cond
	mainWaiting  bool

	metrics metrics

	cfg Config
}

var (
	coordinatorOnce sync.Once
	coordinatorPtr  atomic.Pointer[Coordinator]
)

// coordinatorInstance lazily constructs and starts the coordinator on
// first use, matching spec §3 "lazily initialized on the first
// spawn/yield from the main thread".
func coordinatorInstance() *Coordinator {
	coordinatorOnce.Do(func() {
		c := newCoordinator(currentConfig())
		c.start()
		coordinatorPtr.Store(c)
	})
	return coordinatorPtr.Load()
}

// constructedCoordinator returns the coordinator if one has already been
// lazily constructed, or nil otherwise, without constructing one as a side
// effect. Used by Shutdown, which must be a no-op for a process that never
// spawned a fiber.
func constructedCoordinator() *Coordinator {
	return coordinatorPtr.Load()
}

// Shutdown tears down the coordinator if one was constructed, matching
// spec §6 "Process integration". It is a no-op if none of Spawn, Yield or
// Stats ever ran, since the scheduler is lazily initialized and there
// would be nothing to tear down.
func Shutdown() {
	if c := constructedCoordinator(); c != nil {
		c.Shutdown()
	}
}

func newCoordinator(cfg Config) *Coordinator {
	c := &Coordinator{
		global: newGlobalQueue(),
		dead:   &deadList{},
		cfg:    cfg,
	}
	c.mainWaitCond.L = &c.mainWaitMu
	c.runStateVal.Store(int32(stateInit))
	return c
}

func (c *Coordinator) start() {
	if _, err := maxprocs.Set(); err != nil {
		logger().Warnw("automaxprocs: could not adjust GOMAXPROCS", "error", err.Error())
	}

	p := c.cfg.Workers
	if p <= 0 {
		p = stdruntime.GOMAXPROCS(0) - 1
	}
	if p < 1 {
		p = 1
	}

	c.workers = make([]*Worker, p)
	for i := 0; i < p; i++ {
		c.workers[i] = newWorker(i, c)
	}

	c.runStateVal.Store(int32(stateRunning))
	for _, w := range c.workers {
		c.workersWG.Add(1)
		worker := w
		go func() {
			defer c.workersWG.Done()
			worker.run()
		}()
	}
	logger().Infow("coordinator started", "workers", p, "local_queue_capacity", localQueueCapacity, "fiber_cap", c.cfg.FiberCap)
}

func (c *Coordinator) state() runState { return runState(c.runStateVal.Load()) }

func (c *Coordinator) workerCount() int { return len(c.workers) }

func (c *Coordinator) fiberCap() int64 {
	if c.cfg.FiberCap > 0 {
		return int64(c.cfg.FiberCap)
	}
	return defaultFiberCap
}

// wakeMainLocked signals the main-wait condition variable. Caller must
// hold the waking fiber's status_lock (see worker.go's terminateFiber and
// the lock-ordering discipline in spec §5).
func (c *Coordinator) wakeMainLocked() {
	c.mainWaitMu.Lock()
	c.mainWaiting = false
	c.mainWaitMu.Unlock()
	c.mainWaitCond.Broadcast()
}

// Shutdown tears the coordinator down: asserts live_fiber_count == 0,
// stores run_state = STOPPED, broadcasts the global queue's condition so
// every idle worker wakes, joins every worker, then clears the dead list
// (spec §6 "Process integration"). The global queue is left as it is.
func (c *Coordinator) Shutdown() {
	if c.liveFiberCount.Load() != 0 {
		fatalf("Coordinator.Shutdown", "shutdown requested with %d live fibers", c.liveFiberCount.Load())
	}
	c.runStateVal.Store(int32(stateStopped))
	c.global.BroadcastAll()
	c.workersWG.Wait()
	c.dead.Clear()
	logger().Infow("coordinator stopped", "fibers_completed", c.metrics.completed.Load())
}
