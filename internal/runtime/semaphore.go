package runtime

import "sync"

// Semaphore is a counting semaphore built entirely on top of Yield, as
// the external collaborator named in spec §9 open question (b): "the
// source references semaphore_t... treat semaphores as an external
// collaborator buildable on top of the three primitives (counter +
// waiter list of fibers blocked on down)". It is not wired into the
// coordinator or dispatcher. Grounded on
// _examples/original_source/tests/sem-basic.c's sem_create/sem_down/
// sem_up usage.
type Semaphore struct {
	mu      sync.Mutex
	count   int
	waiters []*Fiber
}

// NewSemaphore creates a semaphore with the given initial count.
func NewSemaphore(initial int) *Semaphore {
	return &Semaphore{count: initial}
}

// Down blocks the caller, yielding repeatedly, until a unit is available
// and it is first in line among fibers that were already waiting.
func (s *Semaphore) Down() {
	self := currentFiber()
	s.mu.Lock()
	s.waiters = append(s.waiters, self)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if s.count > 0 && len(s.waiters) > 0 && s.waiters[0] == self {
			s.count--
			s.waiters = s.waiters[1:]
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		Yield()
	}
}

// Up releases one unit back to the semaphore.
func (s *Semaphore) Up() {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
}
