package syncs

import "github.com/gammazero/deque"

// BoundedQueue is a fixed-capacity FIFO queue with blocking hand-off: Put
// blocks while the queue is full, Take blocks while it is empty. It is a
// monitor built from one [Lock] and two [Cond] instances sharing that lock.
type BoundedQueue[T any] struct {
	lock     *Lock
	notFull  *Cond
	notEmpty *Cond
	items    deque.Deque[T]
	capacity int
}

// NewBoundedQueue creates a [BoundedQueue] holding at most capacity items.
// It panics if capacity is less than 1.
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	if capacity < 1 {
		panic("syncs: bounded queue capacity must be at least 1")
	}

	lock := NewLock()

	return &BoundedQueue[T]{
		lock:     lock,
		notFull:  NewCond(lock),
		notEmpty: NewCond(lock),
		capacity: capacity,
	}
}

// Put appends v to the queue, blocking while the queue is full.
func (q *BoundedQueue[T]) Put(v T) {
	q.lock.Acquire()
	defer q.lock.Release()

	for q.items.Len() == q.capacity {
		q.notFull.Wait()
	}

	q.items.PushBack(v)
	q.notEmpty.Notify(1)
}

// Take removes and returns the oldest item, blocking while the queue is
// empty.
func (q *BoundedQueue[T]) Take() T {
	q.lock.Acquire()
	defer q.lock.Release()

	for q.items.Len() == 0 {
		q.notEmpty.Wait()
	}

	v := q.items.PopFront()
	q.notFull.Notify(1)

	return v
}

// TryTake removes and returns the oldest item without blocking, reporting
// whether an item was available.
func (q *BoundedQueue[T]) TryTake() (T, bool) {
	q.lock.Acquire()
	defer q.lock.Release()

	if q.items.Len() == 0 {
		var zero T

		return zero, false
	}

	v := q.items.PopFront()
	q.notFull.Notify(1)

	return v, true
}

// Len returns the number of items currently queued.
func (q *BoundedQueue[T]) Len() int {
	q.lock.Acquire()
	defer q.lock.Release()

	return q.items.Len()
}

// Cap returns the queue's fixed capacity.
func (q *BoundedQueue[T]) Cap() int {
	return q.capacity
}
