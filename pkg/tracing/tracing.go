// Package tracing provides a minimal span abstraction for timing scenario
// runs, with a logging implementation and a no-op default.
package tracing

var (
	_ Tracer = NoopTracer{}
	_ Span   = noopSpan{}
)

// Tracer starts spans around operations worth timing.
type Tracer interface {
	StartSpan(operationName string) Span
}

// Span is a single timed operation. Baggage items are attached to the span
// and reported when it finishes.
type Span interface {
	Finish()
	SetBaggageItem(key string, value any)
}

// NoopTracer discards every span.
type NoopTracer struct{}

func NewNoopTracer() *NoopTracer {
	return &NoopTracer{}
}

//nolint:ireturn
func (t NoopTracer) StartSpan(_ string) Span {
	return noopSpan{}
}

type noopSpan struct{}

func (noopSpan) Finish() {}

func (noopSpan) SetBaggageItem(_ string, _ any) {}
