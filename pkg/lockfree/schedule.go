package lockfree

import "sync/atomic"

// ScheduleGate coordinates a scripted two-goroutine interleaving through the
// [WithBeforeSwap] hook. Arm it, start a pop on a victim goroutine, and the
// first pop attempt to reach its swap point blocks until Resume. A gate is
// single-use; create a fresh gate and stack per trial.
type ScheduleGate struct {
	reached chan struct{}
	release chan struct{}
	armed   atomic.Bool
}

// NewScheduleGate creates a disarmed [ScheduleGate].
func NewScheduleGate() *ScheduleGate {
	return &ScheduleGate{
		reached: make(chan struct{}),
		release: make(chan struct{}),
	}
}

// Hook is the [WithBeforeSwap] hook to install on the stack under test.
func (g *ScheduleGate) Hook() {
	if g.armed.CompareAndSwap(true, false) {
		close(g.reached)
		<-g.release
	}
}

// Arm marks the next pop attempt to reach its swap point as the victim.
func (g *ScheduleGate) Arm() {
	g.armed.Store(true)
}

// Reached is closed once the victim is parked at its swap point.
func (g *ScheduleGate) Reached() <-chan struct{} {
	return g.reached
}

// Resume releases the parked victim.
func (g *ScheduleGate) Resume() {
	close(g.release)
}

// ScheduleResult reports the outcome of [RunRecycleSchedule].
type ScheduleResult struct {
	VictimErr   error
	ValidateErr error
	VictimValue int
}

// RunRecycleSchedule replays the classic node-reuse interleaving against a
// stack constructed with g's [ScheduleGate.Hook]:
//
//  1. Seed the stack with 10, 20, 30, 40.
//  2. A victim goroutine starts a pop and parks at the gate, holding a
//     snapshot of the head (40) and its successor (30).
//  3. A rival pops 40 and 30 (recycling both nodes), then pushes 40 again,
//     reusing a recycled node for the new head.
//  4. The victim resumes and performs its compare-and-swap.
//
// On [ReuseStack] the victim's swap succeeds against the reused address and
// publishes the freed 30-node as the head; Validate reports the corruption.
// On [TaggedStack] the bumped version tag fails the stale swap and the victim
// retries cleanly. Pass serialized as true for implementations whose pop
// holds a lock across the gate ([LockedStack]); the rival's operations then
// run after the victim instead of interleaving.
func RunRecycleSchedule(s Stack[int], g *ScheduleGate, serialized bool) ScheduleResult {
	for _, v := range []int{10, 20, 30, 40} {
		s.Push(v)
	}

	g.Arm()

	type popResult struct {
		err   error
		value int
	}

	victimDone := make(chan popResult, 1)
	go func() {
		v, err := s.Pop()
		victimDone <- popResult{value: v, err: err}
	}()

	<-g.Reached()

	rival := func() {
		s.Pop() //nolint:errcheck // Seeded stack cannot be empty here.
		s.Pop() //nolint:errcheck
		s.Push(40)
	}

	if serialized {
		g.Resume()
		res := <-victimDone
		rival()

		return ScheduleResult{VictimValue: res.value, VictimErr: res.err, ValidateErr: s.Validate()}
	}

	rival()
	g.Resume()
	res := <-victimDone

	return ScheduleResult{VictimValue: res.value, VictimErr: res.err, ValidateErr: s.Validate()}
}
