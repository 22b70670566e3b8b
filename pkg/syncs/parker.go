package syncs

import "time"

// parker is the suspension point backing every blocking primitive in this
// package: it can block exactly one goroutine until another goroutine signals
// it. It wraps a buffered channel of capacity 1, so unpark never blocks and
// repeated unparks collapse into a single token.
//
// FIFO wake order is never derived from parker itself; primitives queue
// parkers in a [deque.Deque] and signal them in arrival order.
type parker struct {
	ch chan struct{}
}

func newParker() *parker {
	return &parker{ch: make(chan struct{}, 1)}
}

// park blocks the calling goroutine until unpark is called. If unpark was
// already called, park consumes the pending token and returns immediately.
func (p *parker) park() {
	<-p.ch
}

// parkTimeout blocks until unpark is called or d elapses, reporting whether
// the token arrived in time.
func (p *parker) parkTimeout(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-p.ch:
		return true
	case <-timer.C:
		return false
	}
}

// unpark releases the parked goroutine, or stores a token if none is parked
// yet. Calling unpark more than once has no additional effect.
func (p *parker) unpark() {
	select {
	case p.ch <- struct{}{}:
	default:
	}
}
