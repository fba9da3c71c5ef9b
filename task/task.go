// Package task runs detached background work on a pool of goroutines.
package task

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Func is a unit of background work. It should return once ctx is done.
type Func func(ctx context.Context) error

// Scheduler starts tasks without waiting for them.
type Scheduler interface {
	Spawn(name string, fn Func)
}

// Pool is a Scheduler running each task on its own goroutine.
// Panics are recovered and reported as errors, the first of which Wait returns.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc

	group  errgroup.Group
	log    *logrus.Entry
	active atomic.Int64
}

type Option func(*Pool)

func WithLogger(log *logrus.Entry) Option {
	return func(p *Pool) { p.log = log }
}

// NewPool creates a pool whose tasks run under ctx.
func NewPool(ctx context.Context, opts ...Option) *Pool {
	p := &Pool{
		log: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.log = p.log.WithField("component", "task")
	p.ctx, p.cancel = context.WithCancel(ctx)

	return p
}

// Spawn starts fn in the background and returns immediately.
func (p *Pool) Spawn(name string, fn Func) {
	p.active.Add(1)

	p.group.Go(func() error {
		defer p.active.Add(-1)

		return p.run(name, fn)
	})
}

func (p *Pool) run(name string, fn Func) (err error) {
	log := p.log.WithField("task", name)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", name, r)
			log.WithField("panic", r).Error("task panicked")
		}
	}()

	log.Debug("task started")

	err = fn(p.ctx)
	if err != nil && errors.Is(err, context.Canceled) && p.ctx.Err() != nil {
		err = nil
	}

	if err != nil {
		log.WithError(err).Warn("task failed")
		return fmt.Errorf("task %s: %w", name, err)
	}

	log.Debug("task finished")

	return nil
}

// Active returns how many tasks are still running.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Wait blocks until every spawned task returned, and returns the first error.
// The error sticks: once a task failed, every later Wait returns it, even
// for tasks spawned afterwards. Use a new Pool to start from a clean slate.
func (p *Pool) Wait() error {
	return p.group.Wait()
}

// Shutdown cancels every task and waits for them.
func (p *Pool) Shutdown() error {
	p.cancel()
	return p.Wait()
}
