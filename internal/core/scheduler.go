// Package core holds the recurring-task scheduler shared by the engine,
// the prober and the attributor.
package core

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"netspeed-monitor/internal/logger"
)

// Scheduler runs one function on a fixed interval from a single goroutine,
// so two runs never overlap.
type Scheduler struct {
	name      string
	interval  time.Duration
	log       logger.Logger
	run       func(context.Context)
	clock     clock.Clock
	immediate bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type SchedulerOption func(*Scheduler)

func WithClock(c clock.Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = c }
}

// WithoutImmediateRun delays the first run by one interval.
func WithoutImmediateRun() SchedulerOption {
	return func(s *Scheduler) { s.immediate = false }
}

func NewScheduler(name string, interval time.Duration, log logger.Logger, run func(context.Context), opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		name:      name,
		interval:  interval,
		log:       log,
		run:       run,
		clock:     clock.New(),
		immediate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the loop. It returns false when the scheduler is already
// running.
func (s *Scheduler) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return false
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := s.clock.Ticker(s.interval)

	s.cancel = cancel
	s.done = done

	go s.loop(loopCtx, ticker, done)

	s.log.Debug("scheduler started", "name", s.name, "interval", s.interval)
	return true
}

// Stop cancels the loop and waits for an in-flight run to return. Calling it
// more than once, or before Start, is a no-op. It must not be called from
// inside the scheduled function.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	s.log.Debug("scheduler stopped", "name", s.name)
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) loop(ctx context.Context, ticker *clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	if s.immediate {
		s.tick(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.run == nil || ctx.Err() != nil {
		return
	}

	start := s.clock.Now()
	s.run(ctx)
	s.log.Debug("scheduler tick finished", "name", s.name, "time", s.clock.Since(start))
}
