package sig

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		count := NewSignal(r, 0)
		assert.Equal(t, 0, count.Read())

		count.Write(10)
		assert.Equal(t, 10, count.Read())
	})

	t.Run("zero values", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		err := NewSignal[error](r, nil)
		assert.Nil(t, err.Read())

		err.Write(errors.New("oops"))
		assert.EqualError(t, err.Read(), "oops")

		err.Write(nil)
		assert.Nil(t, err.Read())
	})

	t.Run("rejects equal writes", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		count := NewSignal(r, 1)

		assert.False(t, count.TryWrite(1))
		assert.True(t, count.TryWrite(2))
		assert.Equal(t, 2, count.Peek())
	})

	t.Run("uncomparable values always propagate", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		log := [][]int{}

		items := NewSignal(r, []int{1})
		r.NewEffect(func() {
			log = append(log, items.Read())
		})

		items.Write([]int{1})

		assert.Equal(t, [][]int{{1}, {1}}, log)
	})

	t.Run("custom equality", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		sameLen := func(a, b []int) bool { return len(a) == len(b) }
		items := NewSignal(r, []int{1}, WithEquals(sameLen))

		assert.False(t, items.TryWrite([]int{2}))
		assert.True(t, items.TryWrite([]int{2, 3}))
	})

	t.Run("read and write only views", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		count := NewSignal(r, 0)
		read, write := count.ReadOnly(), count.WriteOnly()

		write.Write(3)
		assert.Equal(t, 3, read.Read())
		assert.False(t, write.TryWrite(3))
	})

	t.Run("rejects writes once disposed", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		o := r.NewOwner()

		var count *Signal[int]
		o.Run(func() error {
			count = NewSignal(r, 0)
			return nil
		})

		o.Dispose()

		assert.True(t, count.Disposed())
		assert.False(t, count.TryWrite(1))
		assert.Equal(t, 0, count.Peek())
	})

	t.Run("panics when used from another goroutine", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		count := NewSignal(r, 0)

		var recovered any
		var wg sync.WaitGroup
		wg.Go(func() {
			defer func() { recovered = recover() }()
			count.Write(1)
		})
		wg.Wait()

		err, ok := recovered.(error)
		assert.True(t, ok)
		assert.ErrorIs(t, err, ErrForeignGoroutine)
		assert.Equal(t, 0, count.Read())
	})
}
