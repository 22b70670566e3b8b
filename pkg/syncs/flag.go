package syncs

import "sync"

// Flag is a boolean event with blocking waiters and broadcast semantics:
// setting the flag releases every current waiter and lets all future waiters
// pass until the flag is cleared again. This distinguishes it from [Lock] and
// [Semaphore], which release at most one waiter per permit.
//
// All operations are idempotent and safe to call from any goroutine. Create
// instances with [NewFlag], or use the zero value directly.
type Flag struct {
	ready chan struct{}
	mu    sync.Mutex
	set   bool
}

// NewFlag creates a new [Flag] in the cleared state.
func NewFlag() *Flag {
	return &Flag{
		ready: make(chan struct{}),
	}
}

// generation returns the channel waiters of the current generation block on.
// The channel is closed while the flag is set; Clear installs a fresh one.
func (f *Flag) generation() chan struct{} {
	if f.ready == nil {
		f.ready = make(chan struct{})
	}

	return f.ready
}

// Wait blocks the calling goroutine until the flag is set. If the flag is
// already set at the moment of the check, Wait returns immediately.
func (f *Flag) Wait() {
	f.mu.Lock()
	ch := f.generation()
	f.mu.Unlock()

	<-ch
}

// Set transitions the flag to true, releasing all current waiters and any
// future waiter until the flag is cleared. Setting an already-set flag has no
// effect.
func (f *Flag) Set() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.set {
		return
	}

	f.set = true
	close(f.generation())
}

// Clear transitions the flag to false. Goroutines already released by a prior
// Set are unaffected; subsequent waiters block until the next Set. Clearing an
// already-cleared flag has no effect.
func (f *Flag) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.set {
		return
	}

	f.set = false
	f.ready = make(chan struct{})
}

// IsSet reports whether the flag is currently set. The answer may be stale by
// the time the caller acts on it; use Wait for synchronization.
func (f *Flag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.set
}
