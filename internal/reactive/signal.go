package reactive

import "reflect"

// EqualFunc reports whether two values are the same for change detection.
type EqualFunc func(a, b any) bool

type Signal struct {
	Node

	rt *Runtime

	value any
	equal EqualFunc

	disposed bool
}

// NewSignal creates a signal owned by the current owner.
// A nil equal uses ==, and never considers values of non-comparable types equal.
func (r *Runtime) NewSignal(initial any, equal EqualFunc) *Signal {
	r.checkGoroutine()

	if equal == nil {
		equal = isEqual
	}

	s := &Signal{
		rt:    r,
		value: initial,
		equal: equal,
	}

	if owner := r.tracker.CurrentOwner(); owner != nil {
		owner.OnDispose(s.dispose)
	}

	return s
}

// Read the current value, tracking the dependency if within a reactive context.
func (s *Signal) Read() any {
	s.rt.checkGoroutine()
	s.rt.tracker.Track(&s.Node)

	return s.value
}

// Peek reads the current value without tracking.
func (s *Signal) Peek() any {
	s.rt.checkGoroutine()

	return s.value
}

// Write v and rerun dependents. It reports false, changing nothing, when the
// signal is disposed or v equals the current value.
func (s *Signal) Write(v any) bool {
	s.rt.checkGoroutine()

	if s.disposed || s.equal(s.value, v) {
		return false
	}

	s.value = v

	s.rt.heap.InsertAll(s.subs)
	s.rt.Schedule()

	return true
}

func (s *Signal) Disposed() bool {
	return s.disposed
}

func (s *Signal) dispose() {
	s.disposed = true
	s.subs = nil
}

func isEqual(a, b any) (equal bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}

	// comparable structs may still hold uncomparable values behind interfaces
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()

	return a == b
}
