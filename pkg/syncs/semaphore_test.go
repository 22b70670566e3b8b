package syncs_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flogas0833/synchronization-problems/pkg/syncs"
)

func TestSemaphore_AcquireWithinCapacity(t *testing.T) {
	t.Parallel()

	s := syncs.NewSemaphore(3)

	done := make(chan struct{})
	go func() {
		s.Acquire()
		s.Acquire()
		s.Acquire()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Acquire blocked with permits available")
	}
}

func TestSemaphore_TryAcquire(t *testing.T) {
	t.Parallel()

	s := syncs.NewSemaphore(1)

	assert.True(t, s.TryAcquire())
	assert.False(t, s.TryAcquire())

	s.Release(1)
	assert.True(t, s.TryAcquire())
}

func TestSemaphore_FIFOFairness(t *testing.T) {
	t.Parallel()

	const n = 10

	s := syncs.NewSemaphore(0)
	wakeOrder := make(chan int, n)

	// Block goroutines one at a time so the arrival order is known exactly.
	for i := range n {
		go func() {
			s.Acquire()
			wakeOrder <- i
		}()

		require.Eventually(t, func() bool {
			return s.Waiters() == i+1
		}, 5*time.Second, time.Millisecond)
	}

	for range n {
		s.Release(1)
	}

	for want := range n {
		select {
		case got := <-wakeOrder:
			assert.Equal(t, want, got, "wake order diverged from arrival order")
		case <-time.After(5 * time.Second):
			t.Fatal("a queued acquirer was never woken")
		}
	}
}

func TestSemaphore_ReleaseManyWakesInArrivalOrder(t *testing.T) {
	t.Parallel()

	const n = 6

	s := syncs.NewSemaphore(0)
	wakeOrder := make(chan int, n)

	for i := range n {
		go func() {
			s.Acquire()
			wakeOrder <- i
		}()

		require.Eventually(t, func() bool {
			return s.Waiters() == i+1
		}, 5*time.Second, time.Millisecond)
	}

	s.Release(n)

	for want := range n {
		select {
		case got := <-wakeOrder:
			assert.Equal(t, want, got)
		case <-time.After(5 * time.Second):
			t.Fatal("a queued acquirer was never woken")
		}
	}
}

func TestSemaphore_OverReleaseRaisesCounter(t *testing.T) {
	t.Parallel()

	s := syncs.NewSemaphore(0)

	// More releases than acquires is permitted; the permits accumulate.
	s.Release(2)

	assert.True(t, s.TryAcquire())
	assert.True(t, s.TryAcquire())
	assert.False(t, s.TryAcquire())
}

func TestSemaphore_BoundedAdmission(t *testing.T) {
	t.Parallel()

	const (
		capacity = 3
		workers  = 20
	)

	s := syncs.NewSemaphore(capacity)

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()

			s.Acquire()
			defer s.Release(1)

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, maxSeen, capacity, "admission exceeded semaphore capacity")
	assert.Zero(t, s.Waiters())
}

func TestSemaphore_NoSpuriousWake(t *testing.T) {
	t.Parallel()

	s := syncs.NewSemaphore(0)

	woken := make(chan struct{})
	go func() {
		s.Acquire()
		close(woken)
	}()

	select {
	case <-woken:
		t.Fatal("Acquire returned without a matching Release")
	case <-time.After(100 * time.Millisecond):
	}

	s.Release(1)

	select {
	case <-woken:
	case <-time.After(5 * time.Second):
		t.Fatal("Acquire never returned after Release")
	}
}

func TestNewSemaphore_PanicsOnNegativePermits(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		syncs.NewSemaphore(-1)
	})
}
