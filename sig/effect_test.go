package sig

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffect(t *testing.T) {
	t.Run("runs on signal change with cleanup", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		log := []string{}

		count := NewSignal(r, 0)
		log = append(log, fmt.Sprintf("%d", count.Read()))

		r.NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			r.OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		count.Write(10)
		log = append(log, fmt.Sprintf("%d", count.Read()))
		count.Write(20)

		assert.Equal(t, []string{
			"0",
			"changed 0",
			"cleanup",
			"changed 10",
			"10",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("writes to another signal", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		log := []string{}

		count := NewSignal(r, 0)
		double := NewSignal(r, 0)

		r.NewEffect(func() {
			double.Write(count.Read() * 2)
		})

		r.NewEffect(func() {
			log = append(log, fmt.Sprintf("changed %d", double.Read()))

			r.OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		count.Write(10)

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("nested effects", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		log := []string{}

		count := NewSignal(r, 0)

		r.NewEffect(func() {
			count.Read()
			log = append(log, "running")

			r.NewEffect(func() {
				log = append(log, "running nested")

				r.OnCleanup(func() {
					log = append(log, "cleanup nested")
				})
			})

			r.OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		count.Write(10)

		assert.Equal(t, []string{
			"running",
			"running nested",
			"cleanup nested",
			"cleanup",
			"running",
			"running nested",
		}, log)
	})

	t.Run("diamond dependency", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		log := []string{}

		count := NewSignal(r, 0)
		double := NewMemo(r, func() int { return count.Read() * 2 })
		quad := NewMemo(r, func() int { return count.Read() * 4 })

		r.NewEffect(func() {
			log = append(log, fmt.Sprintf("running %d %d", double.Read(), quad.Read()))

			r.OnCleanup(func() {
				log = append(log, fmt.Sprintf("cleanup %d %d", double.Read(), quad.Read()))
			})
		})

		count.Write(10)

		assert.Equal(t, []string{
			"running 0 0",
			"cleanup 20 40",
			"running 20 40",
		}, log)
	})

	t.Run("diamond dependency nested", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		log := []string{}

		count := NewSignal(r, 0)
		double := NewMemo(r, func() int { return count.Read() * 2 })
		quad := NewMemo(r, func() int { return count.Read() * 4 })

		r.NewEffect(func() {
			log = append(log, fmt.Sprintf("running %d %d", double.Read(), quad.Read()))

			r.NewEffect(func() {
				log = append(log, fmt.Sprintf("running nested %d %d", double.Read(), quad.Read()))
				r.OnCleanup(func() {
					log = append(log, fmt.Sprintf("cleanup nested %d %d", double.Read(), quad.Read()))
				})
			})

			r.OnCleanup(func() {
				log = append(log, fmt.Sprintf("cleanup %d %d", double.Read(), quad.Read()))
			})
		})

		count.Write(10)

		assert.Equal(t, []string{
			"running 0 0",
			"running nested 0 0",
			"cleanup nested 20 40",
			"cleanup 20 40",
			"running 20 40",
			"running nested 20 40",
		}, log)
	})

	t.Run("deps change between runs", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		log := []string{}

		count := NewSignal(r, 0)

		initialized := false
		r.NewEffect(func() {
			log = append(log, "running")
			if !initialized {
				count.Read()
			}
			initialized = true
		})

		count.Write(1)
		count.Write(2) // should not trigger since effect no longer depends on count

		assert.Equal(t, []string{
			"running",
			"running",
		}, log)
	})

	t.Run("render effects run before user effects", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		log := []string{}

		count := NewSignal(r, 0)

		r.NewEffect(func() {
			log = append(log, fmt.Sprintf("user %d", count.Read()))
		})
		r.NewRenderEffect(func() {
			log = append(log, fmt.Sprintf("render %d", count.Read()))
		})

		count.Write(1)

		assert.Equal(t, []string{
			"user 0",
			"render 0",
			"render 1",
			"user 1",
		}, log)
	})

	t.Run("writes from a render effect settle before user effects", func(t *testing.T) {
		r := NewRuntime()
		defer r.Close()

		log := []string{}

		source := NewSignal(r, 0)
		target := NewSignal(r, 0)

		r.NewEffect(func() {
			log = append(log, fmt.Sprintf("user %d %d", source.Read(), target.Read()))
		})
		r.NewRenderEffect(func() {
			target.Write(source.Read() + 1)
		})

		source.Write(5)

		assert.Equal(t, []string{
			"user 0 0",
			"user 0 1",
			"user 5 6",
		}, log)
	})
}
