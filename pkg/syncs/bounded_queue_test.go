package syncs_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flogas0833/synchronization-problems/pkg/syncs"
)

func TestBoundedQueue_FIFOOrder(t *testing.T) {
	t.Parallel()

	q := syncs.NewBoundedQueue[int](10)

	for i := range 10 {
		q.Put(i)
	}

	for want := range 10 {
		assert.Equal(t, want, q.Take())
	}

	assert.Zero(t, q.Len())
}

func TestBoundedQueue_PutBlocksWhenFull(t *testing.T) {
	t.Parallel()

	q := syncs.NewBoundedQueue[int](1)
	q.Put(1)

	unblocked := make(chan struct{})
	go func() {
		q.Put(2)
		close(unblocked)
	}()

	select {
	case <-unblocked:
		t.Fatal("Put returned on a full queue")
	case <-time.After(100 * time.Millisecond):
	}

	assert.Equal(t, 1, q.Take())

	select {
	case <-unblocked:
	case <-time.After(5 * time.Second):
		t.Fatal("Put never unblocked after Take")
	}

	assert.Equal(t, 2, q.Take())
}

func TestBoundedQueue_TakeBlocksWhenEmpty(t *testing.T) {
	t.Parallel()

	q := syncs.NewBoundedQueue[string](4)

	got := make(chan string, 1)
	go func() {
		got <- q.Take()
	}()

	select {
	case <-got:
		t.Fatal("Take returned on an empty queue")
	case <-time.After(100 * time.Millisecond):
	}

	q.Put("item")

	select {
	case v := <-got:
		assert.Equal(t, "item", v)
	case <-time.After(5 * time.Second):
		t.Fatal("Take never unblocked after Put")
	}
}

func TestBoundedQueue_TryTake(t *testing.T) {
	t.Parallel()

	q := syncs.NewBoundedQueue[int](2)

	_, ok := q.TryTake()
	require.False(t, ok)

	q.Put(7)

	v, ok := q.TryTake()
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestBoundedQueue_ProducersAndConsumers(t *testing.T) {
	t.Parallel()

	const (
		producers        = 4
		consumers        = 4
		itemsPerProducer = 250
	)

	q := syncs.NewBoundedQueue[int](8)

	var wg sync.WaitGroup
	wg.Add(producers)

	for p := range producers {
		go func() {
			defer wg.Done()

			for i := range itemsPerProducer {
				q.Put(p*itemsPerProducer + i)
			}
		}()
	}

	var (
		mu   sync.Mutex
		seen = make(map[int]int)
	)

	var cg sync.WaitGroup
	cg.Add(consumers)

	for range consumers {
		go func() {
			defer cg.Done()

			for range producers * itemsPerProducer / consumers {
				v := q.Take()

				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		cg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("producer/consumer hand-off stalled")
	}

	require.Len(t, seen, producers*itemsPerProducer)
	for v, count := range seen {
		assert.Equal(t, 1, count, "item %d consumed %d times", v, count)
	}

	assert.Zero(t, q.Len())
}

func TestNewBoundedQueue_PanicsOnInvalidCapacity(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		syncs.NewBoundedQueue[int](0)
	})
}
