package lockfree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flogas0833/synchronization-problems/pkg/lockfree"
)

// The scripted node-reuse interleaving must corrupt the naive stack: the
// victim's compare-and-swap succeeds against a recycled node address and
// publishes its stale snapshot of the successor, leaving a freed node
// reachable from the head.
func TestReuseStack_RecycleScheduleCorrupts(t *testing.T) {
	t.Parallel()

	gate := lockfree.NewScheduleGate()
	s := lockfree.NewReuseStack[int](lockfree.WithBeforeSwap(gate.Hook))

	res := lockfree.RunRecycleSchedule(s, gate, false)

	// The stale swap succeeds spuriously and the victim walks away with the
	// reused node's value.
	require.NoError(t, res.VictimErr)
	assert.Equal(t, 40, res.VictimValue)

	require.Error(t, res.ValidateErr, "the stale swap did not corrupt the stack")
	assert.ErrorContains(t, res.ValidateErr, "freed node reachable")
}

// Repeated trials of the same schedule: the hazard must be demonstrable in at
// least one run.
func TestReuseStack_RecycleScheduleRepeatedTrials(t *testing.T) {
	t.Parallel()

	corrupted := 0

	for range 10 {
		gate := lockfree.NewScheduleGate()
		s := lockfree.NewReuseStack[int](lockfree.WithBeforeSwap(gate.Hook))

		res := lockfree.RunRecycleSchedule(s, gate, false)
		if res.ValidateErr != nil {
			corrupted++
		}
	}

	assert.Positive(t, corrupted, "the hazard never surfaced across repeated trials")
}

// The identical schedule against the versioned stack: the bumped tag fails
// the victim's stale swap, the pop retries against fresh state, and the
// structure stays consistent on every trial.
func TestTaggedStack_RecycleScheduleStaysConsistent(t *testing.T) {
	t.Parallel()

	for range 10 {
		gate := lockfree.NewScheduleGate()
		s := lockfree.NewTaggedStack[int](lockfree.WithBeforeSwap(gate.Hook))

		res := lockfree.RunRecycleSchedule(s, gate, false)

		require.NoError(t, res.VictimErr)
		require.NoError(t, res.ValidateErr)

		// The victim retried and popped the rival's freshly pushed 40;
		// 20 and 10 remain.
		assert.Equal(t, 40, res.VictimValue)
		assert.Equal(t, []int{20, 10}, s.Inspect())
		assert.Equal(t, 2, s.Len())
	}
}

// The identical schedule against the serialized stack: the rival cannot
// interleave at all, so the victim pops its snapshot unchanged.
func TestLockedStack_RecycleScheduleStaysConsistent(t *testing.T) {
	t.Parallel()

	gate := lockfree.NewScheduleGate()
	s := lockfree.NewLockedStack[int](lockfree.WithBeforeSwap(gate.Hook))

	res := lockfree.RunRecycleSchedule(s, gate, true)

	require.NoError(t, res.VictimErr)
	require.NoError(t, res.ValidateErr)

	assert.Equal(t, 40, res.VictimValue)
	assert.Equal(t, []int{40, 10}, s.Inspect())
	assert.Equal(t, 2, s.Len())
}
