package runtime

import (
	"os"
	"testing"
)

// TestMain pins the scheduler to a single worker before any test runs.
// The coordinator is process-wide singleton state (spec §3), so every
// test in this package shares the one instance Configure applies to;
// a single worker also makes the round-robin fairness test
// (TestYieldFairnessWithinWorker) deterministic rather than dependent on
// how fibers happen to land across several local queues.
func TestMain(m *testing.M) {
	Configure(WithWorkers(1))
	os.Exit(m.Run())
}
