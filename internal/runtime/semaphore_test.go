package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSemaphoreMutualExclusion ports
// _examples/original_source/tests/sem-basic.c: a semaphore with an
// initial count of one serializes access to a shared counter across
// several fibers.
func TestSemaphoreMutualExclusion(t *testing.T) {
	const workers = 8
	const iterations = 200

	sem := NewSemaphore(1)
	shared := 0

	handles := make([]Handle, workers)
	for i := 0; i < workers; i++ {
		handles[i] = Spawn("sem-worker", func(any) {
			for j := 0; j < iterations; j++ {
				sem.Down()
				local := shared
				Yield()
				shared = local + 1
				sem.Up()
			}
		}, nil)
	}
	for _, h := range handles {
		Join(h)
	}

	require.Equal(t, workers*iterations, shared)
}

func TestSemaphoreAllowsConcurrentUpToCount(t *testing.T) {
	sem := NewSemaphore(2)
	sem.Down()
	sem.Down()
	require.Equal(t, 0, sem.count)
	sem.Up()
	require.Equal(t, 1, sem.count)
}
