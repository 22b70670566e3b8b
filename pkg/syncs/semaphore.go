package syncs

import (
	"sync"

	"github.com/gammazero/deque"
)

// Semaphore is a counting semaphore with strict FIFO fairness: the n-th
// goroutine to block in Acquire is the n-th to be woken by Release. Permits
// are handed off directly from releaser to waiter, so a woken goroutine
// returns already holding its permit and can never lose a race against a
// late arrival.
//
// The permit counter and the waiter queue are mutated only inside one short
// internal critical section; no torn intermediate state is ever observable.
// Acquire has no timeout and no cancellation; a blocked goroutine is released
// only by a matching Release.
type Semaphore struct {
	waiters deque.Deque[*parker]
	mu      sync.Mutex
	permits int
}

// NewSemaphore creates a [Semaphore] holding the given number of initial
// permits. It panics if permits is negative.
func NewSemaphore(permits int) *Semaphore {
	if permits < 0 {
		panic("syncs: negative semaphore permits")
	}

	return &Semaphore{permits: permits}
}

// Acquire obtains one permit, blocking while none are available. Queued
// acquirers are granted permits in arrival order; a permit is never granted
// to a late arrival while an earlier goroutine is still queued.
func (s *Semaphore) Acquire() {
	s.mu.Lock()

	if s.permits > 0 && s.waiters.Len() == 0 {
		s.permits--
		s.mu.Unlock()

		return
	}

	p := newParker()
	s.waiters.PushBack(p)
	s.mu.Unlock()

	// The permit is handed off by the releaser before unpark, so returning
	// here means the permit is already held.
	p.park()
}

// TryAcquire obtains one permit without blocking, reporting whether it
// succeeded. It fails when no permit is free or when earlier acquirers are
// still queued.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.permits > 0 && s.waiters.Len() == 0 {
		s.permits--

		return true
	}

	return false
}

// Release returns n permits to the semaphore and wakes up to n queued
// acquirers in strict arrival order. Releasing more permits than were ever
// acquired is permitted and simply raises the counter. Release with n < 1
// has no effect.
func (s *Semaphore) Release(n int) {
	if n < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.permits += n

	for s.permits > 0 && s.waiters.Len() > 0 {
		s.permits--
		s.waiters.PopFront().unpark()
	}
}

// Waiters returns the number of goroutines currently blocked in Acquire.
// Intended for diagnostics and tests; the answer may be stale immediately.
func (s *Semaphore) Waiters() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.waiters.Len()
}
