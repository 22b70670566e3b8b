// Package lockfree provides lock-free stack implementations, including one
// that deliberately exhibits the ABA hazard.
//
// [ReuseStack] is a Treiber stack whose pop path recycles nodes through a
// free pool, so a compare-and-swap against the head can succeed spuriously
// when a node is freed and reused between a reader's snapshot and its swap.
// [TaggedStack] closes the hazard by versioning the head reference, and
// [LockedStack] closes it by serializing behind a [syncs.Lock]. All three
// implement the same [Stack] interface so an identical interleaving schedule
// can be replayed against each variant.
package lockfree
