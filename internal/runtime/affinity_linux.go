//go:build linux

package runtime

import (
	stdruntime "runtime"

	"golang.org/x/sys/unix"
)

// pinWorkerToCPU best-effort pins the calling (already LockOSThread'd)
// worker to one CPU, so the spec's "fixed pool of OS-thread workers"
// framing holds against the Go runtime's own cross-core thread migration.
// A failure here is not fatal: the spec only requires a fixed-size
// worker pool, not a successful pin.
func pinWorkerToCPU(workerID int) {
	ncpu := stdruntime.NumCPU()
	if ncpu <= 0 {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(workerID % ncpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		logger().Warnw("could not pin worker to CPU", "worker_id", workerID, "error", err.Error())
	}
}
