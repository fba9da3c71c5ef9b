// Package stream defines lazy, single-consumption sequences of values
// produced over time, and a handful of sources and adapters for them.
//
// A Stream is pulled with Next until it returns ErrEnd. Next blocks until a
// value is available and must return ctx.Err() promptly once ctx is done.
// Streams holding resources implement io.Closer.
package stream

import (
	"context"
	"errors"
	"iter"
	"sync"
)

// ErrEnd is returned by Next once a stream is exhausted.
var ErrEnd = errors.New("stream: end of stream")

// Stream produces values one at a time.
type Stream[T any] interface {
	Next(ctx context.Context) (T, error)
}

// Func adapts a function to a Stream.
type Func[T any] func(ctx context.Context) (T, error)

func (f Func[T]) Next(ctx context.Context) (T, error) {
	return f(ctx)
}

// FromSlice emits items in order, then ends.
func FromSlice[T any](items ...T) Stream[T] {
	var mu sync.Mutex
	i := 0

	return Func[T](func(ctx context.Context) (T, error) {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		mu.Lock()
		defer mu.Unlock()

		if i >= len(items) {
			return zero, ErrEnd
		}
		v := items[i]
		i++

		return v, nil
	})
}

// FromChan emits the values received from ch and ends when ch is closed.
func FromChan[T any](ch <-chan T) Stream[T] {
	return Func[T](func(ctx context.Context) (T, error) {
		var zero T

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case v, ok := <-ch:
			if !ok {
				return zero, ErrEnd
			}
			return v, nil
		}
	})
}

// SeqStream pulls values from an iter.Seq.
type SeqStream[T any] struct {
	next func() (T, bool)
	stop func()
}

// FromSeq emits the values of seq. The sequence itself is not interrupted by
// ctx: a sequence that blocks keeps Next blocked until it yields.
func FromSeq[T any](seq iter.Seq[T]) *SeqStream[T] {
	next, stop := iter.Pull(seq)
	return &SeqStream[T]{next: next, stop: stop}
}

func (s *SeqStream[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	v, ok := s.next()
	if !ok {
		return zero, ErrEnd
	}

	return v, nil
}

// Close stops the underlying sequence.
func (s *SeqStream[T]) Close() error {
	s.stop()
	return nil
}

// Map transforms every value of s with fn.
func Map[T, U any](s Stream[T], fn func(T) U) Stream[U] {
	return &mapped[T, U]{s, fn}
}

type mapped[T, U any] struct {
	src Stream[T]
	fn  func(T) U
}

func (m *mapped[T, U]) Next(ctx context.Context) (U, error) {
	v, err := m.src.Next(ctx)
	if err != nil {
		var zero U
		return zero, err
	}

	return m.fn(v), nil
}

func (m *mapped[T, U]) Close() error {
	return closeIfCloser(m.src)
}

// Take ends s after n values.
func Take[T any](s Stream[T], n int) Stream[T] {
	return &taken[T]{src: s, left: n}
}

type taken[T any] struct {
	src  Stream[T]
	left int
}

func (t *taken[T]) Next(ctx context.Context) (T, error) {
	if t.left <= 0 {
		var zero T
		return zero, ErrEnd
	}

	v, err := t.src.Next(ctx)
	if err != nil {
		return v, err
	}
	t.left--

	return v, nil
}

func (t *taken[T]) Close() error {
	return closeIfCloser(t.src)
}

// Collect pulls s until it ends and returns every value.
// It returns the values gathered so far along with any error other than ErrEnd.
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var out []T
	for {
		v, err := s.Next(ctx)
		if errors.Is(err, ErrEnd) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

func closeIfCloser(v any) error {
	if c, ok := v.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
