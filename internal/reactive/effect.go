package reactive

type EffectType int

const (
	// EffectRender effects run before user effects in a flush.
	EffectRender EffectType = iota
	EffectUser
)

// Effect is a computation rerun for its side effects whenever a dependency changes.
type Effect struct {
	*Computed

	typ    EffectType
	queued bool
}

// NewEffect creates an effect owned by the current owner and runs it once.
func (r *Runtime) NewEffect(typ EffectType, fn func()) *Effect {
	r.checkGoroutine()

	c := r.newComputed(func() any {
		fn()
		return nil
	})

	e := &Effect{
		Computed: c,
		typ:      typ,
	}
	c.effect = e

	// created under a disposed owner, it never runs
	if !c.disposed {
		c.execute()
	}

	return e
}

func (e *Effect) Type() EffectType {
	return e.typ
}

func (e *Effect) run() {
	if e.disposed {
		return
	}

	e.execute()
}
