package reactive

type Batcher struct {
	// each nested batch increases the depth by 1
	// if depth > 0, flushes are deferred until the outermost batch is complete
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 && onComplete != nil {
			onComplete()
		}
	}()

	fn()
}

// Batch runs fn and flushes once, after the outermost batch returns.
func (r *Runtime) Batch(fn func()) {
	r.checkGoroutine()
	r.batcher.Batch(fn, r.Schedule)
}
