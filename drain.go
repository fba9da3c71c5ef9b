package sigbridge

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Writer accepts items on the runtime goroutine, reporting whether each one
// was applied. sig.WriteSignal implements it.
type Writer[T any] interface {
	TryWrite(v T) bool
}

// disposable writers let the drain loop notice a destination that went away.
type disposable interface {
	Disposed() bool
}

// startDrain creates the render effect applying queued items to w.
// It reruns each time the channel's trigger is notified.
func startDrain[T any](b *bridge[T]) {
	h := b.host

	h.rt.NewRenderEffect(func() {
		b.ch.trigger.Track()

		items := b.ch.queue.Drain()
		h.metrics.Drains.Inc()

		if len(items) == 0 {
			return
		}

		_, span := h.tracer.Start(context.Background(), "sigbridge.drain",
			trace.WithAttributes(attribute.Int("sigbridge.items", len(items))),
		)
		defer span.End()

		applied := 0
		for _, v := range items {
			if b.w.TryWrite(v) {
				applied++
			}
		}

		rejected := len(items) - applied

		h.metrics.DrainBatchSize.Observe(float64(len(items)))
		h.metrics.ItemsApplied.Add(float64(applied))
		h.metrics.WritesRejected.Add(float64(rejected))

		span.SetAttributes(
			attribute.Int("sigbridge.applied", applied),
			attribute.Int("sigbridge.rejected", rejected),
		)

		if d, ok := b.w.(disposable); ok && d.Disposed() {
			span.SetStatus(codes.Error, "destination disposed")
			h.log.Debug("destination disposed, closing bridge")

			// disposing from inside the effect would tear it down mid-run
			h.rt.OnSettled(b.dispose)
		}
	})
}
