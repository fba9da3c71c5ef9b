package reactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrForeignGoroutine is raised (as a panic value) when a runtime is used from
// a goroutine other than the one it is bound to.
var ErrForeignGoroutine = errors.New("reactive: runtime used outside of its goroutine")

// Runtime is a single-goroutine reactive graph.
// Everything but Wake and Ready must be called from the goroutine the runtime
// was created on.
type Runtime struct {
	gid int64
	log *logrus.Entry

	root *Owner

	heap        *PriorityHeap
	tracker     *Tracker
	batcher     *Batcher
	scheduler   *Scheduler
	effectQueue *EffectQueue
	settled     *SettledQueue

	inbox *Inbox
}

// NewRuntime creates a runtime bound to the calling goroutine.
func NewRuntime(log *logrus.Entry) *Runtime {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	r := &Runtime{
		gid: currentGoroutine(),
		log: log.WithField("component", "reactive"),

		heap:        NewHeap(),
		tracker:     NewTracker(),
		batcher:     NewBatcher(),
		scheduler:   NewScheduler(),
		effectQueue: NewEffectQueue(),
		settled:     NewSettledQueue(),
		inbox:       NewInbox(),
	}
	r.root = r.NewOwner()
	r.tracker.owner = r.root

	register(r)

	return r
}

// Root returns the owner every node created outside of an explicit owner belongs to.
func (r *Runtime) Root() *Owner {
	return r.root
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *logrus.Entry {
	return r.log
}

// Clock returns how many flushes completed so far.
func (r *Runtime) Clock() uint64 {
	return r.scheduler.Time()
}

func (r *Runtime) checkGoroutine() {
	if gid := currentGoroutine(); gid != r.gid {
		panic(fmt.Errorf("%w: bound to %d, called from %d", ErrForeignGoroutine, r.gid, gid))
	}
}

// Schedule flushes pending work unless a batch or a flush is already in progress.
func (r *Runtime) Schedule() {
	if r.batcher.IsBatching() {
		return
	}

	r.Flush()
}

// Flush recomputes dirty nodes in height order, then runs queued effects,
// render effects first, until the graph is stable.
func (r *Runtime) Flush() {
	ran := r.scheduler.Run(func() {
		for r.heap.Len() > 0 || r.effectQueue.Len() > 0 {
			r.heap.Drain(r.recompute)

			// render effects may write signals: settle the graph before user effects
			if r.effectQueue.Run(EffectRender) {
				continue
			}

			r.effectQueue.Run(EffectUser)
		}
	})

	if ran {
		r.settled.Run()
	}
}

func (r *Runtime) recompute(c *Computed) {
	if c.disposed {
		return
	}

	if c.effect != nil {
		r.effectQueue.Enqueue(c.effect)
		return
	}

	old := c.value
	c.execute()

	if !c.equal(old, c.value) {
		r.heap.InsertAll(c.subs)
	}
}

// OnSettled registers fn to run once, after the next flush completes.
func (r *Runtime) OnSettled(fn func()) {
	r.checkGoroutine()
	r.settled.Enqueue(fn)
}

// OnCleanup registers fn on the current owner.
func (r *Runtime) OnCleanup(fn func()) {
	r.checkGoroutine()

	if owner := r.tracker.CurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}

// Untrack runs fn without recording dependencies.
func (r *Runtime) Untrack(fn func()) {
	r.checkGoroutine()
	r.tracker.RunUntracked(fn)
}

// Wake asks the runtime goroutine to notify t on its next tick.
// It is safe to call from any goroutine and never blocks.
// It reports whether the request was queued, false meaning it was merged into
// an already pending request or the runtime is closed.
func (r *Runtime) Wake(t *Trigger) bool {
	return r.inbox.Post(t)
}

// Ready returns a channel that receives whenever wake-ups are pending.
func (r *Runtime) Ready() <-chan struct{} {
	return r.inbox.Ready()
}

// Tick notifies every trigger woken since the previous tick, in a single batch.
// It returns how many triggers were notified.
func (r *Runtime) Tick() int {
	r.checkGoroutine()

	triggers := r.inbox.Take()
	if len(triggers) == 0 {
		return 0
	}

	r.Batch(func() {
		for _, t := range triggers {
			t.pending.Store(false)
			t.Notify()
		}
	})

	r.log.WithField("triggers", len(triggers)).Trace("tick")

	return len(triggers)
}

// Run ticks the runtime each time a wake-up is pending, until ctx is done.
func (r *Runtime) Run(ctx context.Context) error {
	r.checkGoroutine()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.inbox.Ready():
			r.Tick()
		}
	}
}

// Close disposes every owned node and drops future wake-ups.
func (r *Runtime) Close() {
	r.checkGoroutine()

	r.inbox.Close()
	r.root.Dispose()
	unregister(r)
}
