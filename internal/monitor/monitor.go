// Package monitor wires the speed engine, the info prober and the process
// attributor to one publish sink and keeps the latest value of each.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"netspeed-monitor/internal/command"
	"netspeed-monitor/internal/config"
	"netspeed-monitor/internal/core/probe"
	"netspeed-monitor/internal/core/speed"
	"netspeed-monitor/internal/core/traffic"
	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/event"
	"netspeed-monitor/internal/logger"
	"netspeed-monitor/internal/storage/snapshot"
)

type Monitor struct {
	bus        *event.Bus
	latest     *snapshot.Latest
	engine     *speed.Engine
	prober     *probe.Prober
	attributor *traffic.Attributor
	log        logger.Logger

	mu      sync.Mutex
	running bool
}

type options struct {
	clock         clock.Clock
	probeRunner   command.Runner
	trafficRunner command.Runner
	probeOpts     []probe.Option
}

type Option func(*options)

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRunners replaces the tool runners used by the prober and the
// attributor.
func WithRunners(probeRunner, trafficRunner command.Runner) Option {
	return func(o *options) {
		o.probeRunner = probeRunner
		o.trafficRunner = trafficRunner
	}
}

func WithProbeOptions(opts ...probe.Option) Option {
	return func(o *options) { o.probeOpts = append(o.probeOpts, opts...) }
}

func New(cfg *config.Config, sampler speed.Sampler, log logger.Logger, opts ...Option) *Monitor {
	o := options{
		clock:         clock.New(),
		probeRunner:   command.NewRunner(cfg.PingTimeout + time.Second),
		trafficRunner: command.NewRunner(cfg.ProcessToolTimeout),
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Monitor{
		bus:    event.NewBus(),
		latest: snapshot.NewLatest(cfg.HistorySize),
		log:    log,
	}

	m.engine = speed.NewEngine(sampler, m.publishSpeed, log.With("component", "speed"),
		speed.WithInterval(cfg.SpeedInterval),
		speed.WithMaxSpeed(cfg.MaxSpeedBytes),
		speed.WithHistorySize(cfg.HistorySize),
		speed.WithClock(o.clock),
	)

	m.prober = probe.NewProber(probe.Config{
		PrimaryInterface: cfg.PrimaryInterface,
		PublicIPURL:      cfg.PublicIPURL,
		PublicIPTimeout:  cfg.PublicIPTimeout,
		PingHost:         cfg.PingHost,
		PingTimeout:      cfg.PingTimeout,
		FairThreshold:    cfg.PingFairThreshold,
		RefreshInterval:  cfg.ProbeRefreshInterval,
	}, o.probeRunner, m.publishInfo, log.With("component", "probe"),
		append([]probe.Option{probe.WithClock(o.clock)}, o.probeOpts...)...)

	m.attributor = traffic.NewAttributor(traffic.Config{
		TrafficTool:    cfg.TrafficTool,
		ConnectionTool: cfg.ConnectionTool,
		Interval:       cfg.ProcessInterval,
		TopN:           cfg.ProcessTopN,
	}, o.trafficRunner, m.publishProcesses, log.With("component", "traffic"),
		traffic.WithClock(o.clock))

	return m
}

// Start launches the three recurring tasks. They run until Stop or until
// ctx is canceled.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.running = true

	m.engine.Start(ctx)
	m.prober.Start(ctx)
	m.attributor.Start(ctx)

	m.log.Info("monitor started")
}

// Stop cancels every task. Calling it again is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false

	m.engine.Stop()
	m.prober.Stop()
	m.attributor.Stop()

	m.log.Info("monitor stopped")
}

// Subscribe delivers every future update to sub until the returned func is
// called.
func (m *Monitor) Subscribe(sub domain.Subscriber) (unsubscribe func()) {
	return m.bus.Attach(sub)
}

func (m *Monitor) Speed() domain.SpeedSnapshot      { return m.latest.Speed() }
func (m *Monitor) Info() domain.NetworkInfoSnapshot { return m.latest.Info() }
func (m *Monitor) Processes() domain.ProcessReport  { return m.latest.Processes() }
func (m *Monitor) EngineState() speed.State         { return m.engine.State() }
func (m *Monitor) ResetDaily()                      { m.engine.ResetDaily() }
func (m *Monitor) ResetMonthly()                    { m.engine.ResetMonthly() }

// Close stops the monitor and detaches every subscriber.
func (m *Monitor) Close() {
	m.Stop()
	m.bus.Close()
}

func (m *Monitor) publishSpeed(s domain.SpeedSnapshot) {
	m.latest.SetSpeed(s)
	m.bus.PublishSpeed(s)
}

func (m *Monitor) publishInfo(s domain.NetworkInfoSnapshot) {
	m.latest.SetInfo(s)
	m.bus.PublishInfo(s)
}

func (m *Monitor) publishProcesses(r domain.ProcessReport) {
	m.latest.SetProcesses(r)
	m.bus.PublishProcesses(r)
}
