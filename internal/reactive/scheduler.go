package reactive

type Scheduler struct {
	// incremented each time a flush completes
	clock uint64

	running bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Run executes fn unless a run is already in progress, and reports whether it did.
// Work scheduled while running is picked up by the outer run.
func (s *Scheduler) Run(fn func()) bool {
	if s.running {
		return false
	}

	s.running = true
	defer func() {
		s.running = false
	}()

	fn()

	s.clock++
	return true
}

func (s *Scheduler) IsRunning() bool {
	return s.running
}

func (s *Scheduler) Time() uint64 {
	return s.clock
}
