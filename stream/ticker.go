package stream

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// TickerStream emits the time of each tick of a time.Ticker.
type TickerStream struct {
	ticker *time.Ticker
}

// Ticker emits a value every d. Ticks are dropped while nobody is pulling.
func Ticker(d time.Duration) *TickerStream {
	return &TickerStream{ticker: time.NewTicker(d)}
}

func (s *TickerStream) Next(ctx context.Context) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case t := <-s.ticker.C:
		return t, nil
	}
}

func (s *TickerStream) Close() error {
	s.ticker.Stop()
	return nil
}

// CronStream emits the activation times of a cron schedule.
type CronStream struct {
	schedule cron.Schedule
	now      func() time.Time
}

// Cron parses spec (standard 5-field syntax or descriptors such as
// "@every 5s" and "@hourly") and emits the time of each activation.
func Cron(spec string) (*CronStream, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}

	return &CronStream{schedule: schedule, now: time.Now}, nil
}

func (s *CronStream) Next(ctx context.Context) (time.Time, error) {
	now := s.now()

	next := s.schedule.Next(now)
	if next.IsZero() {
		return time.Time{}, ErrEnd
	}

	timer := time.NewTimer(next.Sub(now))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case <-timer.C:
		return next, nil
	}
}
