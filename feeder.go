package sigbridge

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/AnatoleLucet/sigbridge/internal/metrics"
	"github.com/AnatoleLucet/sigbridge/stream"
)

type feederState int

const (
	feederAwaiting feederState = iota
	feederForwarding
	feederStopped
)

func (s feederState) String() string {
	switch s {
	case feederAwaiting:
		return "awaiting"
	case feederForwarding:
		return "forwarding"
	case feederStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// feeder moves items from a source into a channel, on a task goroutine.
type feeder[T any] struct {
	// next pulls the items carried by the next source element
	next   func(ctx context.Context) ([]T, error)
	source any

	ch      *channel[T]
	log     *logrus.Entry
	metrics *metrics.Metrics

	state feederState
}

func newFeeder[T any](b *bridge[T], source any, next func(ctx context.Context) ([]T, error)) *feeder[T] {
	return &feeder[T]{
		next:    next,
		source:  source,
		ch:      b.ch,
		log:     b.host.log,
		metrics: b.host.metrics,
	}
}

func scalarFeeder[T any](b *bridge[T], src stream.Stream[T]) *feeder[T] {
	return newFeeder(b, src, func(ctx context.Context) ([]T, error) {
		v, err := src.Next(ctx)
		if err != nil {
			return nil, err
		}
		return []T{v}, nil
	})
}

// vecFeeder forwards the values carried by each diff, one wake-up per value.
func vecFeeder[T any](b *bridge[T], src stream.VecStream[T]) *feeder[T] {
	return newFeeder(b, src, func(ctx context.Context) ([]T, error) {
		d, err := src.Next(ctx)
		if err != nil {
			return nil, err
		}
		return d.Items(), nil
	})
}

// run is the feeder task. It returns nil when the source ends or the bridge
// is disposed, and the source's error when it fails.
func (f *feeder[T]) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// stop a pending pull as soon as the bridge goes away
	f.ch.queue.OnClose(cancel)

	defer func() {
		if c, ok := f.source.(io.Closer); ok {
			if err := c.Close(); err != nil {
				f.log.WithError(err).Debug("closing source")
			}
		}
	}()

	f.metrics.FeedersActive.Inc()
	defer f.metrics.FeedersActive.Dec()

	var (
		pending []T
		err     error
	)

	for f.state != feederStopped {
		switch f.state {
		case feederAwaiting:
			pending, err = f.next(ctx)
			f.state, err = f.afterPull(ctx, err)

		case feederForwarding:
			if len(pending) == 0 {
				f.state = feederAwaiting
				continue
			}

			if sendErr := f.ch.send(pending[0]); sendErr != nil {
				f.metrics.ItemsDropped.Add(float64(len(pending)))
				f.log.WithField("dropped", len(pending)).Debug("bridge disposed, stopping feeder")
				f.state = feederStopped
				continue
			}

			pending = pending[1:]
			f.ch.requestWakeup()
		}
	}

	return err
}

func (f *feeder[T]) afterPull(ctx context.Context, err error) (feederState, error) {
	switch {
	case err == nil:
		return feederForwarding, nil
	case errors.Is(err, stream.ErrEnd):
		f.log.Debug("source ended")
		return feederStopped, nil
	case ctx.Err() != nil:
		f.log.Debug("feeder cancelled")
		return feederStopped, nil
	default:
		f.log.WithError(err).Warn("source failed")
		return feederStopped, err
	}
}
