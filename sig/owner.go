package sig

import "github.com/AnatoleLucet/sigbridge/internal/reactive"

type Owner struct {
	owner *reactive.Owner
}

// NewOwner creates a new reactive owner under the current one.
// An owner manages the lifecycle of reactive nodes created within its context.
func (r *Runtime) NewOwner() *Owner {
	return &Owner{r.rt.NewOwner()}
}

// Run a function within the context of this owner.
// Each reactive node created within the function will be a child of this owner,
// and will be disposed when owner.Dispose() is called on this owner.
func (o *Owner) Run(fn func() error) error { return o.owner.Run(fn) }

// Dispose this owner and all its children.
func (o *Owner) Dispose() { o.owner.Dispose() }

// Disposed reports whether Dispose was called.
func (o *Owner) Disposed() bool { return o.owner.Disposed() }

// Add a cleanup function to be called when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) { o.owner.OnCleanup(fn) }

// Add a function to be called ONCE, after the owner and its children are disposed.
func (o *Owner) OnDispose(fn func()) { o.owner.OnDispose(fn) }

// Add a function to be called when a panic occurs within this owner.
// If no error listener is registered, the panic will propagate as usual.
func (o *Owner) OnError(fn func(any)) { o.owner.OnError(fn) }
