//go:build !linux

package runtime

// pinWorkerToCPU is a no-op outside Linux: CPU-affinity syscalls are not
// portable, and the spec does not require the pin to succeed, only that
// the worker pool is fixed-size.
func pinWorkerToCPU(workerID int) {}
