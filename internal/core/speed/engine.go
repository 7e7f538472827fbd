// Package speed turns cumulative interface counters into per-interval
// throughput, running usage totals and a short normalized history.
package speed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"netspeed-monitor/internal/core"
	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/logger"
	"netspeed-monitor/internal/pkg"
)

const (
	DefaultInterval    = time.Second
	DefaultHistorySize = 20
	DefaultMaxSpeed    = 10 * 1024 * 1024
)

type Sampler interface {
	Sample(ctx context.Context) (domain.AggregateCounters, error)
}

type State int32

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

type usage struct {
	in  uint64
	out uint64
}

func (u *usage) add(in, out uint64) {
	u.in += in
	u.out += out
}

type Engine struct {
	sampler  Sampler
	publish  func(domain.SpeedSnapshot)
	log      logger.Logger
	clock    clock.Clock
	interval time.Duration
	maxSpeed float64

	mu       sync.Mutex
	previous *domain.AggregateCounters
	history  *History
	daily    usage
	monthly  usage

	schedMu sync.Mutex
	sched   *core.Scheduler
	state   atomic.Int32
}

type Option func(*Engine)

func WithMaxSpeed(bytesPerSec float64) Option {
	return func(e *Engine) {
		if bytesPerSec > 0 {
			e.maxSpeed = bytesPerSec
		}
	}
}

func WithHistorySize(n int) Option {
	return func(e *Engine) { e.history = NewHistory(n) }
}

func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func NewEngine(sampler Sampler, publish func(domain.SpeedSnapshot), log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		sampler:  sampler,
		publish:  publish,
		log:      log,
		clock:    clock.New(),
		interval: DefaultInterval,
		maxSpeed: DefaultMaxSpeed,
		history:  NewHistory(DefaultHistorySize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tick runs one sampling cycle. The boolean is false when nothing was
// emitted: either the sampler failed or this was the warm-up tick.
func (e *Engine) Tick(ctx context.Context) (domain.SpeedSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.sampler.Sample(ctx)
	if err != nil {
		e.log.Debug("speed: sample skipped", "error", err)
		return domain.SpeedSnapshot{}, false
	}

	if e.previous == nil {
		e.previous = &current
		e.state.CompareAndSwap(int32(StateUninitialized), int32(StateRunning))
		return domain.SpeedSnapshot{}, false
	}

	deltaIn := counterDelta(current.TotalReceived, e.previous.TotalReceived)
	deltaOut := counterDelta(current.TotalSent, e.previous.TotalSent)

	rateIn, rateOut := e.perSecond(deltaIn), e.perSecond(deltaOut)

	e.daily.add(deltaIn, deltaOut)
	e.monthly.add(deltaIn, deltaOut)
	e.history.Push(Normalize(rateIn, e.maxSpeed))
	e.previous = &current

	return domain.SpeedSnapshot{
		DownloadBytesPerSec: rateIn,
		UploadBytesPerSec:   rateOut,
		DownloadLabel:       pkg.FormatSpeed(rateIn),
		UploadLabel:         pkg.FormatSpeed(rateOut),
		History:             e.history.Values(),
		TodayLabel:          pkg.FormatBytes(e.daily.in + e.daily.out),
		MonthLabel:          pkg.FormatBytes(e.monthly.in + e.monthly.out),
		TodayReceived:       e.daily.in,
		TodaySent:           e.daily.out,
		MonthReceived:       e.monthly.in,
		MonthSent:           e.monthly.out,
		RecordedAt:          e.clock.Now(),
	}, true
}

func (e *Engine) Start(ctx context.Context) {
	e.schedMu.Lock()
	defer e.schedMu.Unlock()

	if e.sched == nil {
		e.sched = core.NewScheduler("speed", e.interval, e.log, e.run, core.WithClock(e.clock))
	}
	if e.sched.Running() {
		return
	}

	e.Rebaseline()
	e.state.Store(int32(StateUninitialized))
	e.sched.Start(ctx)
	e.log.Info("speed engine started", "interval", e.interval, "max_speed", e.maxSpeed)
}

// Stop cancels future ticks. It is safe to call repeatedly.
func (e *Engine) Stop() {
	e.schedMu.Lock()
	sched := e.sched
	e.schedMu.Unlock()

	if sched != nil {
		sched.Stop()
	}
	e.state.Store(int32(StateStopped))
}

func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) ResetDaily() {
	e.mu.Lock()
	e.daily = usage{}
	e.mu.Unlock()
}

func (e *Engine) ResetMonthly() {
	e.mu.Lock()
	e.monthly = usage{}
	e.mu.Unlock()
}

// Rebaseline forgets the previous counters so the next tick only seeds.
func (e *Engine) Rebaseline() {
	e.mu.Lock()
	e.previous = nil
	e.mu.Unlock()
}

func (e *Engine) run(ctx context.Context) {
	snap, ok := e.Tick(ctx)
	if !ok || e.publish == nil {
		return
	}
	e.publish(snap)
}

// perSecond scales a delta taken over one interval to bytes per second.
func (e *Engine) perSecond(delta uint64) uint64 {
	if e.interval == time.Second {
		return delta
	}
	return uint64(float64(delta) / e.interval.Seconds())
}

// counterDelta clamps to zero when the counter went backwards, which happens
// after an interface restart.
func counterDelta(current, previous uint64) uint64 {
	if current < previous {
		return 0
	}
	return current - previous
}

func Normalize(delta uint64, ceiling float64) float64 {
	if ceiling <= 0 {
		ceiling = DefaultMaxSpeed
	}
	v := float64(delta) / ceiling
	if v > 1 {
		return 1
	}
	return v
}
