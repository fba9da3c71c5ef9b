// Package sigbridge feeds values produced by streams running on background
// goroutines into reactive cells owned by a single runtime goroutine.
//
// A bridge is a feeder task, an unbounded queue and a trigger. The feeder
// pulls its stream and sends every item into the queue, waking the runtime
// after each send. Wake-ups coalesce: however many arrive between two ticks,
// the runtime drains the queue once and writes the items into the cell in
// the order they were sent.
//
//	rt := sig.NewRuntime()
//	pool := task.NewPool(ctx)
//	h := sigbridge.NewHost(rt, pool)
//
//	count := sigbridge.BridgeWithInitial(h, stream.Ticker(time.Second), time.Time{})
//	rt.NewEffect(func() { fmt.Println(count.Read()) })
//
//	rt.Run(ctx)
package sigbridge

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/sigbridge/internal/metrics"
	"github.com/AnatoleLucet/sigbridge/sig"
	"github.com/AnatoleLucet/sigbridge/task"
)

const tracerName = "github.com/AnatoleLucet/sigbridge"

// Host binds bridges to a runtime and to the scheduler their feeders run on.
type Host struct {
	rt    *sig.Runtime
	sched task.Scheduler

	log     *logrus.Entry
	metrics *metrics.Metrics
	tracer  trace.Tracer
	owner   *sig.Owner
}

type HostOption func(*Host)

func WithLogger(log *logrus.Entry) HostOption {
	return func(h *Host) { h.log = log }
}

// WithMetrics reports bridge activity to m instead of unregistered collectors.
func WithMetrics(m *metrics.Metrics) HostOption {
	return func(h *Host) { h.metrics = m }
}

// WithTracer replaces the tracer of the global otel provider.
func WithTracer(tracer trace.Tracer) HostOption {
	return func(h *Host) { h.tracer = tracer }
}

// WithOwner attaches every bridge, and the cells created for them, to owner
// rather than to the owner current when the bridge is created.
func WithOwner(owner *sig.Owner) HostOption {
	return func(h *Host) { h.owner = owner }
}

func NewHost(rt *sig.Runtime, sched task.Scheduler, opts ...HostOption) *Host {
	h := &Host{
		rt:    rt,
		sched: sched,
		log:   rt.Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.metrics == nil {
		h.metrics = metrics.Discard()
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer(tracerName)
	}
	h.log = h.log.WithField("component", "bridge")

	return h
}

func (h *Host) Runtime() *sig.Runtime {
	return h.rt
}

// within runs fn under the host's owner, if any.
func (h *Host) within(fn func()) {
	if h.owner == nil {
		fn()
		return
	}

	h.owner.Run(func() error {
		fn()
		return nil
	})
}
