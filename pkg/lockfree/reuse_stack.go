package lockfree

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"
	"github.com/hashicorp/go-multierror"
)

var _ Stack[int] = (*ReuseStack[int])(nil)

type node[T any] struct {
	value atomic.Pointer[T]
	next  atomic.Pointer[node[T]]
	freed atomic.Bool
}

// ReuseStack is a Treiber stack that recycles popped nodes through a FIFO
// free pool, deliberately reproducing the ABA hazard: the pop path's
// compare-and-swap compares node addresses only, so a node that is popped,
// freed, and reused for a later push can satisfy a stale swap. The winning
// goroutine then publishes its stale snapshot of the successor, which may be
// a freed node. Validate surfaces the resulting corruption.
//
// The hazard is the point of this type. Use [TaggedStack] or [LockedStack]
// when correctness is required.
type ReuseStack[T any] struct {
	head       atomic.Pointer[node[T]]
	size       atomic.Int64
	mu         sync.Mutex
	pool       deque.Deque[*node[T]]
	beforeSwap func()
}

// NewReuseStack creates an empty [ReuseStack].
func NewReuseStack[T any](opts ...Option) *ReuseStack[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return &ReuseStack[T]{beforeSwap: o.beforeSwap}
}

func (s *ReuseStack[T]) takeNode() *node[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool.Len() > 0 {
		// Oldest freed node first, so an address returns to circulation as
		// early as possible.
		n := s.pool.PopFront()
		n.freed.Store(false)

		return n
	}

	return &node[T]{}
}

func (s *ReuseStack[T]) recycle(n *node[T]) {
	n.freed.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pool.PushBack(n)
}

// Push adds v to the top of the stack, reusing the oldest pooled node if one
// is available.
func (s *ReuseStack[T]) Push(v T) {
	n := s.takeNode()
	n.value.Store(&v)

	for {
		head := s.head.Load()
		n.next.Store(head)

		if s.head.CompareAndSwap(head, n) {
			s.size.Add(1)

			return
		}
	}
}

// Pop removes and returns the top item, or [ErrEmpty] if the stack is empty.
// Between reading the head and swapping it out, any number of concurrent
// pops and pushes may run; if one of them recycles the observed head node,
// the swap still succeeds and the stale successor is published.
func (s *ReuseStack[T]) Pop() (T, error) {
	for {
		head := s.head.Load()
		if head == nil {
			var zero T

			return zero, ErrEmpty
		}

		next := head.next.Load()

		if s.beforeSwap != nil {
			s.beforeSwap()
		}

		// Address comparison only; node identity is not checked.
		if s.head.CompareAndSwap(head, next) {
			s.size.Add(-1)

			v := *head.value.Load()
			s.recycle(head)

			return v, nil
		}
	}
}

// Len returns the stack's item count. Under ABA corruption this may disagree
// with the number of reachable nodes; Validate reports the mismatch.
func (s *ReuseStack[T]) Len() int {
	return int(s.size.Load())
}

// Inspect returns the values reachable from the head, top to bottom. It must
// only be called while the stack is quiescent.
func (s *ReuseStack[T]) Inspect() []T {
	var values []T

	visited := map[*node[T]]bool{}

	for n := s.head.Load(); n != nil && !visited[n]; n = n.next.Load() {
		visited[n] = true

		if v := n.value.Load(); v != nil {
			values = append(values, *v)
		}
	}

	return values
}

// Validate walks the stack from the head and reports every inconsistency it
// finds: a freed node reachable from the head, a cycle, or a reachable node
// count that disagrees with Len. It must only be called while the stack is
// quiescent.
func (s *ReuseStack[T]) Validate() error {
	var merr error

	visited := map[*node[T]]bool{}
	reachable := 0

	for n := s.head.Load(); n != nil; n = n.next.Load() {
		if visited[n] {
			merr = multierror.Append(merr, errors.New("cycle detected: node reachable from head twice"))

			break
		}

		visited[n] = true
		reachable++

		if n.freed.Load() {
			merr = multierror.Append(merr, fmt.Errorf("freed node reachable from head at depth %d", reachable-1))
		}
	}

	if size := int(s.size.Load()); size != reachable {
		merr = multierror.Append(merr, fmt.Errorf("size counter %d disagrees with %d reachable nodes", size, reachable))
	}

	return merr
}
