// Package sig is a single-goroutine reactive graph: signals, memos, effects,
// owners and triggers bound to an explicit Runtime.
package sig

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/AnatoleLucet/sigbridge/internal/reactive"
)

// ErrForeignGoroutine is the panic value raised when a runtime, or a node it
// owns, is used from another goroutine.
var ErrForeignGoroutine = reactive.ErrForeignGoroutine

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Runtime owns a reactive graph. It is bound to the goroutine that created it:
// only Wake and Ready may be called from elsewhere.
type Runtime struct {
	rt *reactive.Runtime
}

type RuntimeOption func(*runtimeConfig)

type runtimeConfig struct {
	log *logrus.Entry
}

// WithLogger sets the logger the runtime reports through.
func WithLogger(log *logrus.Entry) RuntimeOption {
	return func(c *runtimeConfig) { c.log = log }
}

// NewRuntime creates a runtime bound to the calling goroutine.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	var cfg runtimeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Runtime{reactive.NewRuntime(cfg.log)}
}

// Current returns the runtime bound to the calling goroutine, creating one on first use.
func Current() *Runtime {
	return &Runtime{reactive.GetRuntime()}
}

// Run processes wake-ups until ctx is done.
func (r *Runtime) Run(ctx context.Context) error { return r.rt.Run(ctx) }

// Tick processes the wake-ups pending right now and returns how many triggers it notified.
func (r *Runtime) Tick() int { return r.rt.Tick() }

// Wake schedules t to be notified on the runtime goroutine. Safe from any goroutine.
// It reports false when the request merged into one already pending.
func (r *Runtime) Wake(t *Trigger) bool { return r.rt.Wake(t.t) }

// Ready receives whenever wake-ups are pending. Safe from any goroutine.
func (r *Runtime) Ready() <-chan struct{} { return r.rt.Ready() }

// Clock returns how many flushes completed so far.
func (r *Runtime) Clock() uint64 { return r.rt.Clock() }

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *logrus.Entry { return r.rt.Logger() }

// Close disposes every node of the runtime and ignores later wake-ups.
func (r *Runtime) Close() { r.rt.Close() }

// Batch multiple signal writes into a single update cycle,
// instead of triggering updates after each write.
func (r *Runtime) Batch(fn func()) { r.rt.Batch(fn) }

// NewEffect creates a reactive effect that runs the given function
// now and whenever its dependencies change.
func (r *Runtime) NewEffect(fn func()) { r.rt.NewEffect(reactive.EffectUser, fn) }

// NewRenderEffect is like NewEffect but runs ahead of user effects in each flush.
func (r *Runtime) NewRenderEffect(fn func()) { r.rt.NewEffect(reactive.EffectRender, fn) }

// OnCleanup registers a function to be called when the current owner is reset or disposed.
func (r *Runtime) OnCleanup(fn func()) { r.rt.OnCleanup(fn) }

// OnSettled registers a function to be called once, after the next flush.
func (r *Runtime) OnSettled(fn func()) { r.rt.OnSettled(fn) }

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](r *Runtime, fn func() T) T {
	var result T
	r.rt.Untrack(func() { result = fn() })
	return result
}
