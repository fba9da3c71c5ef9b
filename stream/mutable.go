package stream

import (
	"context"
	"sync"
)

// Mutable is a thread-safe value whose streams emit its latest value.
// Streams start with the current value; values set faster than a stream is
// pulled are skipped, only the most recent one is delivered.
type Mutable[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	closed  bool

	// closed and replaced on every change
	changed chan struct{}
}

func NewMutable[T any](initial T) *Mutable[T] {
	return &Mutable[T]{
		value:   initial,
		version: 1,
		changed: make(chan struct{}),
	}
}

func (m *Mutable[T]) Get() T {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.value
}

// Set v and wake every stream. It has no effect once closed.
func (m *Mutable[T]) Set(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.value = v
	m.version++
	m.broadcast()
}

// Close ends every stream once it has seen the latest value.
func (m *Mutable[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.closed = true
	m.broadcast()
}

func (m *Mutable[T]) broadcast() {
	close(m.changed)
	m.changed = make(chan struct{})
}

// Stream returns a new stream over m.
func (m *Mutable[T]) Stream() Stream[T] {
	return &mutableStream[T]{m: m}
}

type mutableStream[T any] struct {
	m    *Mutable[T]
	seen uint64
}

func (s *mutableStream[T]) Next(ctx context.Context) (T, error) {
	for {
		s.m.mu.Lock()
		if s.seen != s.m.version {
			v := s.m.value
			s.seen = s.m.version
			s.m.mu.Unlock()
			return v, nil
		}
		if s.m.closed {
			s.m.mu.Unlock()
			var zero T
			return zero, ErrEnd
		}
		changed := s.m.changed
		s.m.mu.Unlock()

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-changed:
		}
	}
}
