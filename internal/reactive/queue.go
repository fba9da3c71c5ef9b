package reactive

import "slices"

type EffectQueue struct {
	effects map[EffectType][]*Effect
}

func NewEffectQueue() *EffectQueue {
	effects := make(map[EffectType][]*Effect)
	effects[EffectRender] = make([]*Effect, 0)
	effects[EffectUser] = make([]*Effect, 0)

	return &EffectQueue{effects}
}

func (q *EffectQueue) Enqueue(e *Effect) {
	if e.queued {
		return
	}
	e.queued = true

	q.effects[e.typ] = append(q.effects[e.typ], e)
}

func (q *EffectQueue) Len() int {
	return len(q.effects[EffectRender]) + len(q.effects[EffectUser])
}

// Run runs every queued effect of the given type and reports whether any ran.
func (q *EffectQueue) Run(typ EffectType) bool {
	effects := slices.Clone(q.effects[typ])
	q.effects[typ] = q.effects[typ][:0]

	for _, e := range effects {
		e.queued = false
		e.run()
	}

	return len(effects) > 0
}

// SettledQueue holds one-shot callbacks run after a flush completes.
type SettledQueue struct {
	callbacks []func()
}

func NewSettledQueue() *SettledQueue {
	return &SettledQueue{
		callbacks: make([]func(), 0),
	}
}

func (q *SettledQueue) Enqueue(fn func()) {
	q.callbacks = append(q.callbacks, fn)
}

func (q *SettledQueue) Run() {
	callbacks := q.callbacks
	q.callbacks = nil

	for _, cb := range callbacks {
		cb()
	}
}
