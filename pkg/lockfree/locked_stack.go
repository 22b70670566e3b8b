package lockfree

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/Flogas0833/synchronization-problems/pkg/syncs"
)

var _ Stack[int] = (*LockedStack[int])(nil)

type lockedNode[T any] struct {
	value T
	next  *lockedNode[T]
}

// LockedStack is a linked stack serialized behind a [syncs.Lock]: the
// alternative mitigation of the ABA hazard that forgoes lock freedom
// entirely. With every pop holding the lock from read to unlink, no
// interleaving can observe a stale head, at the cost of FIFO-queued
// contention on every operation.
type LockedStack[T any] struct {
	lock       *syncs.Lock
	head       *lockedNode[T]
	size       int
	beforeSwap func()
}

// NewLockedStack creates an empty [LockedStack].
func NewLockedStack[T any](opts ...Option) *LockedStack[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return &LockedStack[T]{
		lock:       syncs.NewLock(),
		beforeSwap: o.beforeSwap,
	}
}

// Push adds v to the top of the stack.
func (s *LockedStack[T]) Push(v T) {
	s.lock.Acquire()
	defer s.lock.Release()

	s.head = &lockedNode[T]{value: v, next: s.head}
	s.size++
}

// Pop removes and returns the top item, or [ErrEmpty] if the stack is empty.
// The beforeSwap hook runs while the lock is held, so an interleaving that
// corrupts [ReuseStack] merely serializes here.
func (s *LockedStack[T]) Pop() (T, error) {
	s.lock.Acquire()
	defer s.lock.Release()

	if s.head == nil {
		var zero T

		return zero, ErrEmpty
	}

	next := s.head.next

	if s.beforeSwap != nil {
		s.beforeSwap()
	}

	v := s.head.value
	s.head = next
	s.size--

	return v, nil
}

// Len returns the stack's item count.
func (s *LockedStack[T]) Len() int {
	s.lock.Acquire()
	defer s.lock.Release()

	return s.size
}

// Inspect returns the stack's values from top to bottom.
func (s *LockedStack[T]) Inspect() []T {
	s.lock.Acquire()
	defer s.lock.Release()

	var values []T
	for n := s.head; n != nil; n = n.next {
		values = append(values, n.value)
	}

	return values
}

// Validate walks the stack and reports every inconsistency it finds. Nodes
// are never reused here, so only a cycle or a count mismatch is possible.
func (s *LockedStack[T]) Validate() error {
	s.lock.Acquire()
	defer s.lock.Release()

	var merr error

	visited := map[*lockedNode[T]]bool{}
	reachable := 0

	for n := s.head; n != nil; n = n.next {
		if visited[n] {
			merr = multierror.Append(merr, errors.New("cycle detected: node reachable from head twice"))

			break
		}

		visited[n] = true
		reachable++
	}

	if s.size != reachable {
		merr = multierror.Append(merr, fmt.Errorf("size counter %d disagrees with %d reachable nodes", s.size, reachable))
	}

	return merr
}
