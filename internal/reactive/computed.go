package reactive

import "slices"

type Computed struct {
	*Owner
	Node

	// dependencies read during the last run
	deps []*Node

	compute func() any
	value   any
	equal   EqualFunc

	// set when this computation backs an effect
	effect *Effect

	inHeap bool
}

// NewComputed creates a memoized computation and runs it once.
func (r *Runtime) NewComputed(compute func() any) *Computed {
	r.checkGoroutine()

	c := r.newComputed(compute)
	c.execute()

	return c
}

func (r *Runtime) newComputed(compute func() any) *Computed {
	c := &Computed{
		Owner: r.NewOwner(),

		compute: compute,
		equal:   isEqual,
	}

	c.OnDispose(func() {
		r.heap.Remove(c)
		c.clearDeps()
	})

	return c
}

func (c *Computed) execute() {
	defer func() {
		if p := recover(); p != nil {
			c.handle(p)
		}
	}()

	c.reset()
	c.clearDeps()

	c.rt.tracker.RunWithComputation(c, func() {
		c.value = c.compute()
	})
}

// Read the current value, tracking the dependency if within a reactive context.
func (c *Computed) Read() any {
	c.rt.checkGoroutine()
	c.rt.tracker.Track(&c.Node)

	return c.value
}

// Value returns the last computed value without tracking.
func (c *Computed) Value() any {
	return c.value
}

func (c *Computed) link(dep *Node) {
	if !slices.Contains(c.deps, dep) {
		c.deps = append(c.deps, dep)
		dep.addSub(c)
	}

	if dep.height >= c.height {
		c.height = dep.height + 1
	}
}

// Deps returns the nodes read during the last run.
func (c *Computed) Deps() []*Node {
	return slices.Clone(c.deps)
}

func (c *Computed) clearDeps() {
	for _, dep := range c.deps {
		dep.removeSub(c)
	}

	c.deps = nil
}
