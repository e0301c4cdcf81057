// Package fiber is the public surface of a cooperative M:N fiber
// scheduler: a fixed pool of worker goroutines, each pinned to an OS
// thread, multiplexing many lightweight fibers. It re-exports the three
// scheduling primitives plus ambient observability/configuration built
// around them; the scheduler implementation itself lives in
// internal/runtime, where it stays reachable only through this facade.
package fiber

import "github.com/coro-rt/fiber/internal/runtime"

// Entry is a fiber's body: the function supplied to Spawn.
type Entry = runtime.Entry

// Handle is an opaque reference to a spawned fiber, returned by Spawn and
// consumed by Join.
type Handle = runtime.Handle

// Option configures the scheduler before its first use; see Configure.
type Option = runtime.Option

// Snapshot is a point-in-time read of the scheduler's counters.
type Snapshot = runtime.Snapshot

// Logger is the structured logging seam the scheduler reports through.
type Logger = runtime.Logger

// Semaphore is a counting semaphore built on top of Yield, shipped as a
// reference collaborator rather than a scheduler primitive.
type Semaphore = runtime.Semaphore

// Spawn allocates a fiber running entry(arg) under the name given, places
// it on a ready queue, and returns a handle that can later be passed to
// Join. May be called from any fiber or from the main goroutine. Fatal on
// allocation failure or when spawning would exceed the live-fiber cap.
func Spawn(name string, entry Entry, arg any) Handle {
	return runtime.Spawn(name, entry, arg)
}

// Yield cooperatively suspends the calling fiber until it is dispatched
// again, after every fiber ahead of it in its local queue has had a
// turn. From the main goroutine it does nothing beyond constructing the
// scheduler on first use.
func Yield() {
	runtime.Yield()
}

// Join blocks the caller until the fiber identified by h has terminated.
// Multiple callers, including the main goroutine, may join the same
// fiber concurrently.
func Join(h Handle) {
	runtime.Join(h)
}

// Stats returns a snapshot of the scheduler's live-fiber count and
// lifetime counters. Like Spawn and Yield, the first call constructs the
// scheduler if it has not run yet.
func Stats() Snapshot {
	return runtime.Stats()
}

// Configure applies options before the scheduler's first use. Calling it
// after the scheduler has already started is a programming error.
func Configure(opts ...Option) {
	runtime.Configure(opts...)
}

// SetLogger installs a custom structured logger, replacing the default
// zerolog-backed one.
func SetLogger(l Logger) {
	runtime.SetLogger(l)
}

// WithWorkers overrides the worker pool size (default: GOMAXPROCS - 1,
// floor 1).
func WithWorkers(n int) Option {
	return runtime.WithWorkers(n)
}

// WithFiberCap overrides the hard live-fiber cap (default: 15,000).
func WithFiberCap(n int) Option {
	return runtime.WithFiberCap(n)
}

// NewSemaphore creates a counting semaphore with the given initial count,
// built entirely on top of Yield.
func NewSemaphore(initial int) *Semaphore {
	return runtime.NewSemaphore(initial)
}

// Shutdown tears the scheduler down: it asserts that no fibers are live,
// stops every worker, and releases the dead list. It is a no-op if the
// scheduler was never started (none of Spawn, Yield or Stats has run
// yet). Callers
// that spawn fibers are expected to join all of them, then call Shutdown
// once before the process exits.
func Shutdown() {
	runtime.Shutdown()
}
