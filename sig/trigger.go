package sig

import "github.com/AnatoleLucet/sigbridge/internal/reactive"

// Trigger is a value-less signal. Effects that Track it rerun on each Notify,
// or on the tick following a Runtime.Wake from any goroutine.
type Trigger struct {
	t *reactive.Trigger
}

func (r *Runtime) NewTrigger() *Trigger {
	return &Trigger{r.rt.NewTrigger()}
}

// Track subscribes the running effect or memo to the trigger.
func (t *Trigger) Track() { t.t.Track() }

// Notify reruns subscribers. Runtime goroutine only.
func (t *Trigger) Notify() { t.t.Notify() }
