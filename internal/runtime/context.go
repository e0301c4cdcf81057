package runtime

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// This file is this port's context-switch primitive: the spec's
// stack_switch_call/setjmp/longjmp trio, translated into the one
// synchronization unit Go actually lets user code hold onto across a
// suspension — a goroutine and a channel. See DESIGN.md's "Context switch
// primitive" entry for why a literal register-level stack switch has no
// safe encoding against the Go runtime's own stack-copying GC, and why a
// per-fiber goroutine is the faithful replacement rather than a shortcut.
//
// What remains genuinely primitive here is identity: yield() and join()
// are parameterless/handle-only in the spec, exactly like this port's
// Yield and Join, so neither can be handed "which fiber is calling" as an
// argument. goroutineID recovers it from the runtime's own stack trace
// header, and fiberRegistry maps it back to the Fiber that goroutine is
// executing — playing the role the spec's saved register context plays:
// identity implied by which execution vehicle you are currently running
// on.
var fiberRegistry sync.Map // int64 goroutine id -> *Fiber

// goroutineID parses the running goroutine's id out of "goroutine N
// [state]:", the first line runtime.Stack always produces for the calling
// goroutine. The id is stable for the lifetime of the goroutine, which is
// exactly the lifetime of the fiber it is registered to.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	line := buf[:n]
	const prefix = "goroutine "
	line = bytes.TrimPrefix(line, []byte(prefix))
	if end := bytes.IndexByte(line, ' '); end >= 0 {
		line = line[:end]
	}
	id, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		fatalf("goroutineID", "could not parse goroutine id from stack header %q: %v", buf[:n], err)
	}
	return id
}

// registerCurrentFiber binds the calling goroutine to f for the remainder
// of f's lifetime. Called once, from inside the goroutine the dispatcher
// starts for f's first dispatch.
func registerCurrentFiber(f *Fiber) {
	fiberRegistry.Store(goroutineID(), f)
}

// unregisterCurrentFiber removes the calling goroutine's binding. Called
// once, from the termination trampoline, immediately before that
// goroutine exits for good.
func unregisterCurrentFiber() {
	fiberRegistry.Delete(goroutineID())
}

// currentFiber returns the Fiber the calling goroutine is executing as,
// or nil if the caller is the main goroutine (or any goroutine the
// scheduler never dispatched).
func currentFiber() *Fiber {
	v, ok := fiberRegistry.Load(goroutineID())
	if !ok {
		return nil
	}
	return v.(*Fiber)
}
