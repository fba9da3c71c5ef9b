package sig

import "github.com/AnatoleLucet/sigbridge/internal/reactive"

type Memo[T any] struct {
	computed *reactive.Computed
}

// NewMemo creates a computed signal that derives its value from other signals.
// It is recomputed eagerly, and only propagates when its value changes.
func NewMemo[T any](r *Runtime, compute func() T) *Memo[T] {
	return &Memo[T]{
		r.rt.NewComputed(func() any {
			return compute()
		}),
	}
}

// Read the current value of the memo, tracking the dependency if within a reactive context.
func (m *Memo[T]) Read() T {
	return as[T](m.computed.Read())
}
