package lockfree

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"
	"github.com/hashicorp/go-multierror"
)

var _ Stack[int] = (*TaggedStack[int])(nil)

type taggedNode[T any] struct {
	value T
	next  atomic.Uint32
	freed bool
}

// TaggedStack is a lock-free stack immune to the ABA hazard. Nodes live in an
// arena and are addressed by index; the head is a single packed word holding
// (version tag, node ref), and every successful swap increments the tag.
// Address reuse therefore can no longer satisfy a stale compare-and-swap: a
// goroutine holding an outdated snapshot always fails and retries against
// fresh state.
//
// A node ref is the node's arena index plus one; ref 0 marks the empty stack.
type TaggedStack[T any] struct {
	head       atomic.Uint64
	nodes      atomic.Pointer[[]*taggedNode[T]]
	size       atomic.Int64
	mu         sync.Mutex
	free       deque.Deque[uint32]
	beforeSwap func()
}

// NewTaggedStack creates an empty [TaggedStack].
func NewTaggedStack[T any](opts ...Option) *TaggedStack[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	s := &TaggedStack[T]{beforeSwap: o.beforeSwap}
	arena := []*taggedNode[T]{}
	s.nodes.Store(&arena)

	return s
}

func packHead(tag, ref uint32) uint64 {
	return uint64(tag)<<32 | uint64(ref)
}

func headParts(h uint64) (uint32, uint32) {
	return uint32(h >> 32), uint32(h)
}

func (s *TaggedStack[T]) node(ref uint32) *taggedNode[T] {
	return (*s.nodes.Load())[ref-1]
}

func (s *TaggedStack[T]) takeRef() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.free.Len() > 0 {
		// Same FIFO recycling discipline as [ReuseStack], so the identical
		// reuse schedule can be replayed against this variant.
		ref := s.free.PopFront()
		s.node(ref).freed = false

		return ref
	}

	arena := append(*s.nodes.Load(), &taggedNode[T]{})
	s.nodes.Store(&arena)

	return uint32(len(arena))
}

func (s *TaggedStack[T]) releaseRef(ref uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.node(ref).freed = true
	s.free.PushBack(ref)
}

// Push adds v to the top of the stack, reusing the oldest free arena slot if
// one is available.
func (s *TaggedStack[T]) Push(v T) {
	ref := s.takeRef()
	n := s.node(ref)
	n.value = v

	for {
		h := s.head.Load()
		tag, headRef := headParts(h)
		n.next.Store(headRef)

		if s.head.CompareAndSwap(h, packHead(tag+1, ref)) {
			s.size.Add(1)

			return
		}
	}
}

// Pop removes and returns the top item, or [ErrEmpty] if the stack is empty.
// A concurrent recycle of the observed head node bumps the version tag, so
// the stale swap fails and the pop retries from a fresh read.
func (s *TaggedStack[T]) Pop() (T, error) {
	for {
		h := s.head.Load()
		tag, ref := headParts(h)

		if ref == 0 {
			var zero T

			return zero, ErrEmpty
		}

		next := s.node(ref).next.Load()

		if s.beforeSwap != nil {
			s.beforeSwap()
		}

		if s.head.CompareAndSwap(h, packHead(tag+1, next)) {
			s.size.Add(-1)

			// The swap succeeded against the current tag, so this node is
			// exclusively owned here until releaseRef returns it.
			v := s.node(ref).value
			s.releaseRef(ref)

			return v, nil
		}
	}
}

// Len returns the stack's item count.
func (s *TaggedStack[T]) Len() int {
	return int(s.size.Load())
}

// Inspect returns the values reachable from the head, top to bottom. It must
// only be called while the stack is quiescent.
func (s *TaggedStack[T]) Inspect() []T {
	var values []T

	visited := map[uint32]bool{}

	_, ref := headParts(s.head.Load())
	for ref != 0 && !visited[ref] {
		visited[ref] = true
		n := s.node(ref)
		values = append(values, n.value)
		ref = n.next.Load()
	}

	return values
}

// Validate walks the stack from the head and reports every inconsistency it
// finds. It must only be called while the stack is quiescent.
func (s *TaggedStack[T]) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var merr error

	visited := map[uint32]bool{}
	reachable := 0

	_, ref := headParts(s.head.Load())
	for ref != 0 {
		if visited[ref] {
			merr = multierror.Append(merr, errors.New("cycle detected: node reachable from head twice"))

			break
		}

		visited[ref] = true
		reachable++

		if s.node(ref).freed {
			merr = multierror.Append(merr, fmt.Errorf("freed node reachable from head at depth %d", reachable-1))
		}

		ref = s.node(ref).next.Load()
	}

	if size := int(s.size.Load()); size != reachable {
		merr = multierror.Append(merr, fmt.Errorf("size counter %d disagrees with %d reachable nodes", size, reachable))
	}

	return merr
}
