package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInbox(t *testing.T) {
	t.Run("coalesces posts of the same trigger", func(t *testing.T) {
		i := NewInbox()
		a, b := &Trigger{}, &Trigger{}

		assert.True(t, i.Post(a))
		assert.False(t, i.Post(a))
		assert.True(t, i.Post(b))

		assert.Len(t, i.Ready(), 1)
		assert.Equal(t, []*Trigger{a, b}, i.Take())
		assert.Empty(t, i.Take())
	})

	t.Run("drops posts once closed", func(t *testing.T) {
		i := NewInbox()
		i.Close()

		assert.False(t, i.Post(&Trigger{}))
		assert.Empty(t, i.Take())
	})
}
