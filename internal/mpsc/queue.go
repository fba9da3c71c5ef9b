// Package mpsc implements an unbounded multi-producer, single-consumer queue.
//
// Send never blocks: a producer outrunning the consumer grows the queue
// rather than waiting. Callers feeding untrusted or unbounded sources own that
// memory risk.
package mpsc

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Send once the queue was closed.
var ErrClosed = errors.New("mpsc: queue closed")

type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	closed  bool
	onClose []func()

	done chan struct{}
}

func New[T any]() *Queue[T] {
	return &Queue[T]{
		done: make(chan struct{}),
	}
}

// Send appends v. It is safe for concurrent use and never blocks.
func (q *Queue[T]) Send(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	q.items = append(q.items, v)
	return nil
}

// Drain removes and returns every queued item in send order.
// It returns nil when nothing is queued. Only one goroutine may drain.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil

	return items
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// Close drops queued items and fails later sends. It is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.items = nil
	hooks := q.onClose
	q.onClose = nil
	close(q.done)
	q.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Done is closed when the queue is.
func (q *Queue[T]) Done() <-chan struct{} {
	return q.done
}

// OnClose registers fn to run once the queue is closed, right away if it already is.
func (q *Queue[T]) OnClose(fn func()) {
	q.mu.Lock()
	if !q.closed {
		q.onClose = append(q.onClose, fn)
		q.mu.Unlock()
		return
	}
	q.mu.Unlock()

	fn()
}
