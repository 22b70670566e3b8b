package syncs

import (
	"sync"
	"time"

	"github.com/gammazero/deque"
)

// Cond is a monitor-style condition variable bound to a caller-owned [Lock].
// The Cond holds a non-owning reference: the Lock must outlive every Cond
// bound to it, and one Lock may back several Conds.
//
// Every operation other than construction requires the caller to hold the
// bound lock. This is a caller obligation, not enforced at runtime, matching
// monitor discipline. Wait returns with the bound lock re-acquired, so the
// usual pattern holds:
//
//	lock.Acquire()
//	for !condition() {
//		cond.Wait()
//	}
//	// ... act on the state ...
//	lock.Release()
//
// Each Wait call enqueues a fresh single-use ticket before the bound lock is
// released, so a notification issued between the release and the waiter
// suspending can never be lost. Notify wakes waiters in strict FIFO order of
// their Wait calls.
type Cond struct {
	lock    *Lock
	tickets deque.Deque[*parker]
	mu      sync.Mutex
}

// NewCond creates a [Cond] bound to the given lock. The lock is shared, not
// owned; the caller controls its lifetime.
func NewCond(lock *Lock) *Cond {
	return &Cond{lock: lock}
}

// Wait atomically enqueues the caller as a waiter, releases the bound lock,
// and blocks until notified. It re-acquires the bound lock before returning.
// The caller must hold the bound lock and must re-check the awaited condition
// in a loop, since the state may have changed again by the time the lock is
// re-acquired.
func (c *Cond) Wait() {
	t := newParker()

	// Queue the ticket before releasing the lock: a Notify that fires in the
	// window between the release and the park finds the ticket and unparks
	// it, which park then consumes.
	c.mu.Lock()
	c.tickets.PushBack(t)
	c.mu.Unlock()

	c.lock.Release()
	t.park()
	c.lock.Acquire()
}

// WaitTimeout is Wait with an upper bound on the blocked duration. It reports
// whether the waiter was notified; false means the timeout elapsed first. In
// both cases WaitTimeout returns holding the bound lock.
func (c *Cond) WaitTimeout(d time.Duration) bool {
	t := newParker()

	c.mu.Lock()
	c.tickets.PushBack(t)
	c.mu.Unlock()

	c.lock.Release()

	signaled := t.parkTimeout(d)
	if !signaled {
		c.mu.Lock()
		i := c.tickets.Index(func(p *parker) bool { return p == t })
		if i >= 0 {
			c.tickets.Remove(i)
		}
		c.mu.Unlock()

		// If the ticket was already gone, a concurrent Notify claimed it
		// after the timer fired; that notification must not be lost, so the
		// wait counts as signaled.
		signaled = i < 0
	}

	c.lock.Acquire()

	return signaled
}

// Notify wakes up to n waiters in the order their Wait calls enqueued,
// without releasing the bound lock; a woken waiter proceeds only once the
// notifier releases it. If fewer than n waiters are queued, Notify wakes all
// of them and returns without error.
func (c *Cond) Notify(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for ; n > 0 && c.tickets.Len() > 0; n-- {
		c.tickets.PopFront().unpark()
	}
}

// NotifyAll wakes every currently queued waiter.
func (c *Cond) NotifyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.tickets.Len() > 0 {
		c.tickets.PopFront().unpark()
	}
}

// Acquire acquires the bound lock. Provided for caller convenience so a
// monitor can be driven entirely through its Cond.
func (c *Cond) Acquire() {
	c.lock.Acquire()
}

// Release releases the bound lock.
func (c *Cond) Release() {
	c.lock.Release()
}

// Waiters returns the number of queued waiters. Intended for diagnostics and
// tests; the answer may be stale immediately.
func (c *Cond) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tickets.Len()
}
