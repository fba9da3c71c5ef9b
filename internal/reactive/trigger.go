package reactive

import (
	"sync"
	"sync/atomic"
)

// Trigger is a value-less node: tracking it subscribes, notifying it reruns subscribers.
type Trigger struct {
	Node

	rt *Runtime

	// set while the trigger waits in the inbox
	pending atomic.Bool
}

func (r *Runtime) NewTrigger() *Trigger {
	r.checkGoroutine()

	return &Trigger{rt: r}
}

// Track subscribes the running computation to t.
func (t *Trigger) Track() {
	t.rt.checkGoroutine()
	t.rt.tracker.Track(&t.Node)
}

// Notify reruns every computation tracking t.
func (t *Trigger) Notify() {
	t.rt.checkGoroutine()

	t.rt.heap.InsertAll(t.subs)
	t.rt.Schedule()
}

// Inbox collects triggers woken from other goroutines until the runtime
// goroutine takes them.
type Inbox struct {
	mu      sync.Mutex
	pending []*Trigger
	closed  bool

	// capacity one, so any number of posts leave at most one signal
	ready chan struct{}
}

func NewInbox() *Inbox {
	return &Inbox{
		ready: make(chan struct{}, 1),
	}
}

// Post queues t unless it is already queued, and reports whether it was.
func (i *Inbox) Post(t *Trigger) bool {
	if !t.pending.CompareAndSwap(false, true) {
		return false
	}

	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return false
	}
	i.pending = append(i.pending, t)
	i.mu.Unlock()

	select {
	case i.ready <- struct{}{}:
	default:
	}

	return true
}

// Take returns and forgets every queued trigger, in posting order.
func (i *Inbox) Take() []*Trigger {
	i.mu.Lock()
	defer i.mu.Unlock()

	triggers := i.pending
	i.pending = nil

	return triggers
}

func (i *Inbox) Ready() <-chan struct{} {
	return i.ready
}

func (i *Inbox) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.closed = true
	i.pending = nil
}
