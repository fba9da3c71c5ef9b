package sigbridge

import (
	"github.com/AnatoleLucet/sigbridge/internal/metrics"
	"github.com/AnatoleLucet/sigbridge/internal/mpsc"
	"github.com/AnatoleLucet/sigbridge/sig"
)

// channel hands items from a feeder to the drain loop.
// send and requestWakeup are safe from any goroutine.
type channel[T any] struct {
	queue   *mpsc.Queue[T]
	trigger *sig.Trigger
	rt      *sig.Runtime
	metrics *metrics.Metrics
}

// newChannel must run on the runtime goroutine.
func newChannel[T any](h *Host) *channel[T] {
	return &channel[T]{
		queue:   mpsc.New[T](),
		trigger: h.rt.NewTrigger(),
		rt:      h.rt,
		metrics: h.metrics,
	}
}

// send returns mpsc.ErrClosed once the bridge is disposed.
func (c *channel[T]) send(v T) error {
	if err := c.queue.Send(v); err != nil {
		return err
	}

	c.metrics.ItemsSent.Inc()
	return nil
}

// requestWakeup schedules one run of the drain loop, merging with a run
// already pending.
func (c *channel[T]) requestWakeup() {
	c.metrics.WakeupsRequested.Inc()

	if !c.rt.Wake(c.trigger) {
		c.metrics.WakeupsCoalesced.Inc()
	}
}

func (c *channel[T]) close() {
	c.queue.Close()
}
