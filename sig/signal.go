package sig

import "github.com/AnatoleLucet/sigbridge/internal/reactive"

// Signal is a read/write reactive cell.
type Signal[T any] struct {
	signal *reactive.Signal
}

type SignalOption[T any] func(*signalConfig[T])

type signalConfig[T any] struct {
	equals func(a, b T) bool
}

// WithEquals replaces the default == comparison used to skip unchanged writes.
func WithEquals[T any](equals func(a, b T) bool) SignalOption[T] {
	return func(c *signalConfig[T]) { c.equals = equals }
}

// NewSignal creates your tipical read/write signal, owned by the current owner.
func NewSignal[T any](r *Runtime, initial T, opts ...SignalOption[T]) *Signal[T] {
	var cfg signalConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	var equal reactive.EqualFunc
	if cfg.equals != nil {
		equal = func(a, b any) bool { return cfg.equals(as[T](a), as[T](b)) }
	}

	return &Signal[T]{r.rt.NewSignal(initial, equal)}
}

// Read the current value of the signal, tracking the dependency if within a reactive context.
func (s *Signal[T]) Read() T {
	return as[T](s.signal.Read())
}

// Peek reads the current value without tracking.
func (s *Signal[T]) Peek() T {
	return as[T](s.signal.Peek())
}

// Write a new value to the signal, triggering updates to any dependents.
func (s *Signal[T]) Write(v T) {
	s.signal.Write(v)
}

// TryWrite is Write reporting whether the value was accepted.
// Writes equal to the current value, or to a disposed signal, are rejected.
func (s *Signal[T]) TryWrite(v T) bool {
	return s.signal.Write(v)
}

// Disposed reports whether the signal's owner was disposed.
func (s *Signal[T]) Disposed() bool {
	return s.signal.Disposed()
}

func (s *Signal[T]) ReadOnly() ReadSignal[T] {
	return ReadSignal[T]{s.signal}
}

func (s *Signal[T]) WriteOnly() WriteSignal[T] {
	return WriteSignal[T]{s.signal}
}

// ReadSignal is the shared, read-only side of a Signal.
type ReadSignal[T any] struct {
	signal *reactive.Signal
}

func (s ReadSignal[T]) Read() T {
	return as[T](s.signal.Read())
}

func (s ReadSignal[T]) Peek() T {
	return as[T](s.signal.Peek())
}

// WriteSignal is the write-only side of a Signal.
type WriteSignal[T any] struct {
	signal *reactive.Signal
}

func (s WriteSignal[T]) Write(v T) {
	s.signal.Write(v)
}

func (s WriteSignal[T]) TryWrite(v T) bool {
	return s.signal.Write(v)
}

// Disposed reports whether the signal's owner was disposed.
func (s WriteSignal[T]) Disposed() bool {
	return s.signal.Disposed()
}
