package reactive

type Tracker struct {
	tracking bool

	owner       *Owner    // for lifecycle/cleanup tracking
	computation *Computed // for reactive dependency tracking
}

func NewTracker() *Tracker {
	return &Tracker{
		tracking: true,
	}
}

func (t *Tracker) CurrentOwner() *Owner {
	return t.owner
}

func (t *Tracker) CurrentComputation() *Computed {
	return t.computation
}

func (t *Tracker) RunWithOwner(owner *Owner, fn func()) {
	prev := t.owner
	t.owner = owner
	defer func() { t.owner = prev }()

	fn()
}

func (t *Tracker) RunWithComputation(c *Computed, fn func()) {
	prevOwner := t.owner
	prevComputation := t.computation
	prevTracking := t.tracking

	t.owner = c.Owner
	t.computation = c
	t.tracking = true

	defer func() {
		t.owner = prevOwner
		t.computation = prevComputation
		t.tracking = prevTracking
	}()

	fn()
}

func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

// Track links node to the running computation, if any.
func (t *Tracker) Track(node *Node) {
	if t.ShouldTrack() {
		t.computation.link(node)
	}
}

func (t *Tracker) ShouldTrack() bool {
	return t.computation != nil && t.tracking
}
