// Package syncs provides synchronization primitives and utilities.
//
// This package implements concurrency control mechanisms with strict FIFO
// fairness: an event [Flag] with broadcast semantics, a counting [Semaphore],
// a [Lock], a monitor-style [Cond] bound to a caller-owned Lock, and a
// [BoundedQueue] composing them into a producer/consumer hand-off.
package syncs
