package syncs

import (
	"sync"

	"github.com/gammazero/deque"
)

// Lock is a mutual-exclusion lock: a [Semaphore] specialized to capacity 1,
// with FIFO fairness among contenders. Unlike [sync.Mutex], releasing a Lock
// that is not held is a no-op rather than a fault; [Cond] relies on this
// policy, since its wait/notify protocol releases the lock on behalf of a
// different logical phase.
//
// Lock is not reentrant. Create instances with [NewLock], or use the zero
// value directly.
type Lock struct {
	waiters deque.Deque[*parker]
	mu      sync.Mutex
	held    bool
}

// NewLock creates a new, unheld [Lock].
func NewLock() *Lock {
	return &Lock{}
}

// Acquire blocks until the lock is free, then takes it. Contenders are
// granted the lock in arrival order; ownership is handed off directly from
// releaser to the earliest waiter.
func (l *Lock) Acquire() {
	l.mu.Lock()

	if !l.held && l.waiters.Len() == 0 {
		l.held = true
		l.mu.Unlock()

		return
	}

	p := newParker()
	l.waiters.PushBack(p)
	l.mu.Unlock()

	// Ownership transfers in Release; held remains true throughout.
	p.park()
}

// TryAcquire takes the lock without blocking, reporting whether it succeeded.
func (l *Lock) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held && l.waiters.Len() == 0 {
		l.held = true

		return true
	}

	return false
}

// Release frees the lock and wakes the earliest queued contender, if any.
// Releasing a lock that is not held is a no-op; state is never corrupted.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		return
	}

	if l.waiters.Len() > 0 {
		// Hand the lock to the next contender without ever marking it free,
		// so a late TryAcquire cannot barge in front of the queue.
		l.waiters.PopFront().unpark()

		return
	}

	l.held = false
}

// Waiters returns the number of goroutines currently blocked in Acquire.
// Intended for diagnostics and tests; the answer may be stale immediately.
func (l *Lock) Waiters() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.waiters.Len()
}
