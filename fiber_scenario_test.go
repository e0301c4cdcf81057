package fiber_test

import (
	"sync/atomic"
	"testing"

	"github.com/coro-rt/fiber"
	"github.com/stretchr/testify/require"
)

// TestPublicAPIBasicRoundTrip exercises the facade package directly
// rather than internal/runtime, confirming Spawn/Yield/Join behave
// identically through the public surface (spec §6, the three-function
// external interface).
func TestPublicAPIBasicRoundTrip(t *testing.T) {
	var seen int32
	h := fiber.Spawn("root", func(any) {
		for i := 0; i < 5; i++ {
			atomic.AddInt32(&seen, 1)
			fiber.Yield()
		}
	}, nil)
	fiber.Join(h)
	require.EqualValues(t, 5, atomic.LoadInt32(&seen))
}

func TestPublicAPINestedSpawnAndJoin(t *testing.T) {
	const depth = 20
	var spawn func(d int) fiber.Handle
	spawn = func(d int) fiber.Handle {
		return fiber.Spawn("nested", func(any) {
			if d > 0 {
				fiber.Join(spawn(d - 1))
			}
		}, nil)
	}
	before := fiber.Stats().LiveFibers
	fiber.Join(spawn(depth))
	require.Equal(t, before, fiber.Stats().LiveFibers)
}

func TestPublicAPISemaphoreSerializes(t *testing.T) {
	sem := fiber.NewSemaphore(1)
	counter := 0
	const workers = 4
	const iterations = 50
	handles := make([]fiber.Handle, workers)
	for i := 0; i < workers; i++ {
		handles[i] = fiber.Spawn("sem", func(any) {
			for j := 0; j < iterations; j++ {
				sem.Down()
				counter++
				fiber.Yield()
				sem.Up()
			}
		}, nil)
	}
	for _, h := range handles {
		fiber.Join(h)
	}
	require.Equal(t, workers*iterations, counter)
}
