package sigbridge

import (
	"github.com/AnatoleLucet/sigbridge/sig"
	"github.com/AnatoleLucet/sigbridge/stream"
)

// bridge ties a channel and its drain loop to an owner.
// Disposing the owner closes the channel, which stops the feeder.
type bridge[T any] struct {
	host  *Host
	owner *sig.Owner
	ch    *channel[T]
	w     Writer[T]
}

func newBridge[T any](h *Host, w Writer[T]) *bridge[T] {
	b := &bridge[T]{host: h, w: w}

	h.within(func() {
		b.owner = h.rt.NewOwner()
	})

	b.owner.Run(func() error {
		b.ch = newChannel[T](h)
		startDrain(b)
		return nil
	})

	b.owner.OnDispose(b.ch.close)

	return b
}

func (b *bridge[T]) dispose() {
	b.owner.Dispose()
}

// WriteInto applies every item of src to w, on the runtime goroutine.
// It must be called on the runtime goroutine and returns immediately.
func WriteInto[T any](h *Host, src stream.Stream[T], w Writer[T]) {
	b := newBridge(h, w)
	h.sched.Spawn("sigbridge.feeder", scalarFeeder(b, src).run)
}

// BridgeInto feeds src into cell and returns its read side.
func BridgeInto[T any](h *Host, src stream.Stream[T], cell *sig.Signal[T]) sig.ReadSignal[T] {
	WriteInto(h, src, cell.WriteOnly())
	return cell.ReadOnly()
}

// BridgeWithInitial creates a cell holding initial until src produces its
// first item, and feeds src into it.
func BridgeWithInitial[T any](h *Host, src stream.Stream[T], initial T) sig.ReadSignal[T] {
	var cell *sig.Signal[T]
	h.within(func() {
		cell = sig.NewSignal(h.rt, initial)
	})

	return BridgeInto(h, src, cell)
}

// WriteVecInto applies the values carried by each diff of src to w.
// Removals, moves and clears carry no value and write nothing.
func WriteVecInto[T any](h *Host, src stream.VecStream[T], w Writer[T]) {
	b := newBridge(h, w)
	h.sched.Spawn("sigbridge.vec_feeder", vecFeeder(b, src).run)
}

// BridgeVecInto feeds the values carried by src's diffs into cell and returns its read side.
func BridgeVecInto[T any](h *Host, src stream.VecStream[T], cell *sig.Signal[T]) sig.ReadSignal[T] {
	WriteVecInto(h, src, cell.WriteOnly())
	return cell.ReadOnly()
}

// BridgeVecWithInitial creates a cell holding initial until src carries a value, and feeds src into it.
func BridgeVecWithInitial[T any](h *Host, src stream.VecStream[T], initial T) sig.ReadSignal[T] {
	var cell *sig.Signal[T]
	h.within(func() {
		cell = sig.NewSignal(h.rt, initial)
	})

	return BridgeVecInto(h, src, cell)
}
