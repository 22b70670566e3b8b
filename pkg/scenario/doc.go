// Package scenario provides runnable consumers of the synchronization
// primitives: the sleeping barber, the cigarette smokers, and a river
// crossing monitor.
//
// Each scenario is a runner that spawns its worker goroutines, drives them
// through the syncs primitives, and joins on completion. Runners
// broadcast typed events to subscribers while running and expose a report
// with a unique run ID for assertions afterwards.
package scenario
