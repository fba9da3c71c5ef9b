package reactive

import "slices"

type Owner struct {
	rt *Runtime

	// cleanup functions, run when the owner is reset or disposed
	cleanups []func()

	// run once, when the owner is disposed
	disposers []func()

	// panic handlers
	catchers []func(any)

	parent   *Owner
	children []*Owner

	disposed bool
}

// NewOwner creates an owner attached to the current owner.
// Under a disposed owner it is born disposed.
func (r *Runtime) NewOwner() *Owner {
	o := &Owner{rt: r}

	if parent := r.tracker.CurrentOwner(); parent != nil {
		if parent.disposed {
			o.disposed = true
			return o
		}
		parent.addChild(o)
	}

	return o
}

// Run fn with o as the current owner.
// A panic in fn is handed to the nearest OnError handler up the owner chain.
func (o *Owner) Run(fn func() error) (err error) {
	o.rt.checkGoroutine()

	defer func() {
		if p := recover(); p != nil {
			o.handle(p)
		}
	}()

	o.rt.tracker.RunWithOwner(o, func() { err = fn() })

	return err
}

func (o *Owner) handle(p any) {
	for cur := o; cur != nil; cur = cur.parent {
		if len(cur.catchers) == 0 {
			continue
		}

		for _, catcher := range cur.catchers {
			catcher(p)
		}
		return
	}

	panic(p)
}

func (o *Owner) addChild(child *Owner) {
	child.parent = o
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	if i := slices.Index(o.children, child); i >= 0 {
		o.children = slices.Delete(o.children, i, i+1)
	}
}

// Children returns the owners created under o.
func (o *Owner) Children() []*Owner {
	return slices.Clone(o.children)
}

func (o *Owner) Disposed() bool {
	return o.disposed
}

// Dispose o and all its children, most recent first.
func (o *Owner) Dispose() {
	if o.disposed {
		return
	}

	o.reset()
	o.disposed = true

	disposers := o.disposers
	o.disposers = nil
	for _, fn := range disposers {
		fn()
	}

	if o.parent != nil {
		o.parent.removeChild(o)
		o.parent = nil
	}
}

// reset disposes the children and runs the cleanups, leaving o reusable.
func (o *Owner) reset() {
	children := o.children
	o.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].parent = nil
		children[i].Dispose()
	}

	cleanups := o.cleanups
	o.cleanups = nil
	for _, fn := range cleanups {
		fn()
	}
}

func (o *Owner) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) OnDispose(fn func()) {
	if o.disposed {
		fn()
		return
	}

	o.disposers = append(o.disposers, fn)
}

func (o *Owner) OnError(fn func(any)) {
	o.catchers = append(o.catchers, fn)
}
