package lockfree

import "errors"

// ErrEmpty is returned by Pop when the stack holds no items.
var ErrEmpty = errors.New("empty structure")

// Stack is a LIFO container safe for concurrent use.
//
// Inspect and Validate are diagnostics for tests and demos: they walk the
// structure without synchronizing against concurrent mutators and must only
// be called while the stack is quiescent.
type Stack[T any] interface {
	// Push adds v to the top of the stack.
	Push(v T)
	// Pop removes and returns the top item, or [ErrEmpty] if there is none.
	Pop() (T, error)
	// Len returns the number of items on the stack.
	Len() int
	// Inspect returns the stack's values from top to bottom.
	Inspect() []T
	// Validate walks the stack and reports every structural inconsistency
	// it finds, such as a freed node reachable from the head.
	Validate() error
}

type options struct {
	beforeSwap func()
}

// Option configures a stack implementation.
type Option func(*options)

// WithBeforeSwap installs a hook invoked on every Pop attempt, after the head
// and its successor have been read but before the compare-and-swap. Tests and
// demos use it to hold a pop open at its most vulnerable point while other
// goroutines mutate the stack.
func WithBeforeSwap(fn func()) Option {
	return func(o *options) {
		o.beforeSwap = fn
	}
}
