package stream

import (
	"context"
	"slices"
	"sync"
)

// VecOp is the kind of change a VecDiff describes.
type VecOp int

const (
	VecReplace VecOp = iota
	VecInsertAt
	VecUpdateAt
	VecRemoveAt
	VecMove
	VecPush
	VecPop
	VecClear
)

var vecOpNames = [...]string{"replace", "insert_at", "update_at", "remove_at", "move", "push", "pop", "clear"}

func (op VecOp) String() string {
	if int(op) < len(vecOpNames) {
		return vecOpNames[op]
	}
	return "unknown"
}

// VecDiff is one incremental change to a collection.
type VecDiff[T any] struct {
	Op VecOp

	// Index is used by InsertAt, UpdateAt and RemoveAt.
	Index int
	// OldIndex and NewIndex are used by Move.
	OldIndex, NewIndex int

	// Value is used by InsertAt, UpdateAt and Push.
	Value T
	// Values is used by Replace.
	Values []T
}

// Items returns the element values the change introduces, in order.
func (d VecDiff[T]) Items() []T {
	switch d.Op {
	case VecReplace:
		return d.Values
	case VecInsertAt, VecUpdateAt, VecPush:
		return []T{d.Value}
	default:
		return nil
	}
}

// Apply returns dst with the change applied.
func (d VecDiff[T]) Apply(dst []T) []T {
	switch d.Op {
	case VecReplace:
		return slices.Clone(d.Values)
	case VecInsertAt:
		return slices.Insert(dst, d.Index, d.Value)
	case VecUpdateAt:
		dst[d.Index] = d.Value
		return dst
	case VecRemoveAt:
		return slices.Delete(dst, d.Index, d.Index+1)
	case VecMove:
		v := dst[d.OldIndex]
		dst = slices.Delete(dst, d.OldIndex, d.OldIndex+1)
		return slices.Insert(dst, d.NewIndex, v)
	case VecPush:
		return append(dst, d.Value)
	case VecPop:
		return dst[:len(dst)-1]
	case VecClear:
		return dst[:0]
	default:
		return dst
	}
}

// VecStream produces incremental changes over a collection.
type VecStream[T any] interface {
	Next(ctx context.Context) (VecDiff[T], error)
}

// VecFunc adapts a function to a VecStream.
type VecFunc[T any] func(ctx context.Context) (VecDiff[T], error)

func (f VecFunc[T]) Next(ctx context.Context) (VecDiff[T], error) {
	return f(ctx)
}

// FromDiffs emits diffs in order, then ends.
func FromDiffs[T any](diffs ...VecDiff[T]) VecStream[T] {
	s := FromSlice(diffs...)
	return VecFunc[T](s.Next)
}

// MutableVec is a thread-safe collection whose streams receive every change.
// A new stream starts with a Replace of the current contents.
type MutableVec[T any] struct {
	mu      sync.Mutex
	items   []T
	streams []*vecStream[T]
	closed  bool
}

func NewMutableVec[T any](items ...T) *MutableVec[T] {
	return &MutableVec[T]{items: slices.Clone(items)}
}

// Snapshot returns a copy of the current contents.
func (v *MutableVec[T]) Snapshot() []T {
	v.mu.Lock()
	defer v.mu.Unlock()

	return slices.Clone(v.items)
}

func (v *MutableVec[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.items)
}

func (v *MutableVec[T]) Push(value T) {
	v.apply(VecDiff[T]{Op: VecPush, Value: value})
}

func (v *MutableVec[T]) InsertAt(index int, value T) {
	v.apply(VecDiff[T]{Op: VecInsertAt, Index: index, Value: value})
}

func (v *MutableVec[T]) SetAt(index int, value T) {
	v.apply(VecDiff[T]{Op: VecUpdateAt, Index: index, Value: value})
}

func (v *MutableVec[T]) RemoveAt(index int) {
	v.apply(VecDiff[T]{Op: VecRemoveAt, Index: index})
}

func (v *MutableVec[T]) Move(oldIndex, newIndex int) {
	v.apply(VecDiff[T]{Op: VecMove, OldIndex: oldIndex, NewIndex: newIndex})
}

// Pop removes the last element. It is a no-op on an empty collection.
func (v *MutableVec[T]) Pop() {
	v.apply(VecDiff[T]{Op: VecPop})
}

func (v *MutableVec[T]) Clear() {
	v.apply(VecDiff[T]{Op: VecClear})
}

func (v *MutableVec[T]) Replace(items []T) {
	v.apply(VecDiff[T]{Op: VecReplace, Values: slices.Clone(items)})
}

// Close ends every stream after it has received the pending changes.
func (v *MutableVec[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true

	for _, s := range v.streams {
		s.end()
	}
	v.streams = nil
}

// apply panics, like slice indexing, on out of range indexes.
func (v *MutableVec[T]) apply(d VecDiff[T]) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	if d.Op == VecPop && len(v.items) == 0 {
		return
	}

	v.items = d.Apply(v.items)

	for _, s := range v.streams {
		s.push(d)
	}
}

// Stream returns a new stream of changes, starting with the current contents.
func (v *MutableVec[T]) Stream() VecStream[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := &vecStream[T]{
		vec:    v,
		notify: make(chan struct{}, 1),
		queue:  []VecDiff[T]{{Op: VecReplace, Values: slices.Clone(v.items)}},
	}

	if v.closed {
		s.ended = true
	} else {
		v.streams = append(v.streams, s)
	}

	return s
}

func (v *MutableVec[T]) detach(s *vecStream[T]) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i := slices.Index(v.streams, s); i >= 0 {
		v.streams = slices.Delete(v.streams, i, i+1)
	}
}

type vecStream[T any] struct {
	vec *MutableVec[T]

	mu    sync.Mutex
	queue []VecDiff[T]
	ended bool

	notify chan struct{}
}

func (s *vecStream[T]) push(d VecDiff[T]) {
	if d.Op == VecReplace {
		d.Values = slices.Clone(d.Values)
	}

	s.mu.Lock()
	s.queue = append(s.queue, d)
	s.mu.Unlock()

	s.wake()
}

func (s *vecStream[T]) end() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()

	s.wake()
}

func (s *vecStream[T]) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *vecStream[T]) Next(ctx context.Context) (VecDiff[T], error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			d := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return d, nil
		}
		ended := s.ended
		s.mu.Unlock()

		if ended {
			return VecDiff[T]{}, ErrEnd
		}

		select {
		case <-ctx.Done():
			return VecDiff[T]{}, ctx.Err()
		case <-s.notify:
		}
	}
}

// Close stops the stream from receiving further changes.
func (s *vecStream[T]) Close() error {
	s.vec.detach(s)
	s.end()
	return nil
}
