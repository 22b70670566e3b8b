package lockfree_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flogas0833/synchronization-problems/pkg/lockfree"
)

func stackVariants() map[string]func(opts ...lockfree.Option) lockfree.Stack[int] {
	return map[string]func(opts ...lockfree.Option) lockfree.Stack[int]{
		"reuse": func(opts ...lockfree.Option) lockfree.Stack[int] {
			return lockfree.NewReuseStack[int](opts...)
		},
		"tagged": func(opts ...lockfree.Option) lockfree.Stack[int] {
			return lockfree.NewTaggedStack[int](opts...)
		},
		"locked": func(opts ...lockfree.Option) lockfree.Stack[int] {
			return lockfree.NewLockedStack[int](opts...)
		},
	}
}

func TestStack_RoundTrip(t *testing.T) {
	t.Parallel()

	for name, newStack := range stackVariants() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := newStack()

			for i := 1; i <= 5; i++ {
				s.Push(i * 10)
			}

			require.Equal(t, 5, s.Len())
			assert.Equal(t, []int{50, 40, 30, 20, 10}, s.Inspect())

			for want := 5; want >= 1; want-- {
				v, err := s.Pop()
				require.NoError(t, err)
				assert.Equal(t, want*10, v)
			}

			_, err := s.Pop()
			require.ErrorIs(t, err, lockfree.ErrEmpty)

			assert.Zero(t, s.Len())
			require.NoError(t, s.Validate())
		})
	}
}

func TestStack_PopEmpty(t *testing.T) {
	t.Parallel()

	for name, newStack := range stackVariants() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := newStack()

			_, err := s.Pop()
			require.ErrorIs(t, err, lockfree.ErrEmpty)
		})
	}
}

func TestStack_NodeReuseKeepsValues(t *testing.T) {
	t.Parallel()

	for name, newStack := range stackVariants() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := newStack()

			// Cycle enough pushes and pops through the stack to recycle
			// nodes several times over.
			for round := range 4 {
				for i := range 8 {
					s.Push(round*100 + i)
				}

				for i := 7; i >= 0; i-- {
					v, err := s.Pop()
					require.NoError(t, err)
					assert.Equal(t, round*100+i, v)
				}
			}

			require.NoError(t, s.Validate())
		})
	}
}

func TestStack_ConcurrentAccounting(t *testing.T) {
	t.Parallel()

	for name, newStack := range stackVariants() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			const (
				workers      = 8
				opsPerWorker = 500
			)

			s := newStack()

			var wg sync.WaitGroup
			wg.Add(workers)

			for w := range workers {
				go func() {
					defer wg.Done()

					for i := range opsPerWorker {
						s.Push(w*opsPerWorker + i)
					}
				}()
			}

			wg.Wait()
			require.Equal(t, workers*opsPerWorker, s.Len())

			var (
				mu   sync.Mutex
				seen = make(map[int]int)
			)

			wg.Add(workers)

			for range workers {
				go func() {
					defer wg.Done()

					for range opsPerWorker {
						v, err := s.Pop()
						if err != nil {
							continue
						}

						mu.Lock()
						seen[v]++
						mu.Unlock()
					}
				}()
			}

			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(60 * time.Second):
				t.Fatal("concurrent pops stalled")
			}

			require.Len(t, seen, workers*opsPerWorker)
			for v, count := range seen {
				assert.Equal(t, 1, count, "value %d popped %d times", v, count)
			}

			assert.Zero(t, s.Len())
			require.NoError(t, s.Validate())
		})
	}
}
