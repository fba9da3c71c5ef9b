package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutable(t *testing.T) {
	t.Run("starts with the current value", func(t *testing.T) {
		m := NewMutable(1)

		v, err := m.Stream().Next(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("skips to the latest value", func(t *testing.T) {
		m := NewMutable(0)
		s := m.Stream()

		_, err := s.Next(context.Background())
		require.NoError(t, err)

		m.Set(1)
		m.Set(2)
		m.Set(3)

		v, err := s.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, v)
		assert.Equal(t, 3, m.Get())
	})

	t.Run("waits for a change", func(t *testing.T) {
		m := NewMutable("a")
		s := m.Stream()
		_, _ = s.Next(context.Background())

		go func() {
			time.Sleep(10 * time.Millisecond)
			m.Set("b")
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		v, err := s.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b", v)
	})

	t.Run("ends after the last value once closed", func(t *testing.T) {
		m := NewMutable(0)
		s := m.Stream()

		m.Set(7)
		m.Close()
		m.Set(8)

		v, err := s.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, v)

		_, err = s.Next(context.Background())
		assert.ErrorIs(t, err, ErrEnd)
	})

	t.Run("returns when the context ends", func(t *testing.T) {
		m := NewMutable(0)
		s := m.Stream()
		_, _ = s.Next(context.Background())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := s.Next(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
