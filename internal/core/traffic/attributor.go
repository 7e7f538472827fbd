// Package traffic attributes network usage to processes by sampling an
// external accounting tool, falling back to counting open connections.
package traffic

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"netspeed-monitor/internal/command"
	"netspeed-monitor/internal/core"
	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/logger"
	"netspeed-monitor/internal/pkg"
)

const (
	DefaultInterval = 3 * time.Second
	DefaultTopN     = 5
)

var (
	trafficArgs    = []string{"-P", "-L", "1", "-n", "-x", "-J", "bytes_in,bytes_out"}
	connectionArgs = []string{"-i", "-n", "-P"}
)

type Config struct {
	TrafficTool    string
	ConnectionTool string
	Interval       time.Duration
	TopN           int
}

func DefaultConfig() Config {
	return Config{
		TrafficTool:    "nettop",
		ConnectionTool: "lsof",
		Interval:       DefaultInterval,
		TopN:           DefaultTopN,
	}
}

type Attributor struct {
	cfg     Config
	runner  command.Runner
	publish func(domain.ProcessReport)
	log     logger.Logger
	clock   clock.Clock
	sched   *core.Scheduler
}

type Option func(*Attributor)

func WithClock(c clock.Clock) Option {
	return func(a *Attributor) { a.clock = c }
}

// NewAttributor expects a runner that enforces the per-tool time budget.
func NewAttributor(cfg Config, runner command.Runner, publish func(domain.ProcessReport), log logger.Logger, opts ...Option) *Attributor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}

	a := &Attributor{
		cfg:     cfg,
		runner:  runner,
		publish: publish,
		log:     log,
		clock:   clock.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.sched = core.NewScheduler("traffic", cfg.Interval, log, a.run, core.WithClock(a.clock))
	return a
}

// Poll produces one ranked report. Tool failures never surface as errors:
// the primary tool falls back to the connection listing, and when both fail
// the report is empty.
func (a *Attributor) Poll(ctx context.Context) domain.ProcessReport {
	report := domain.ProcessReport{RecordedAt: a.clock.Now()}

	out, err := a.runner.Run(ctx, a.cfg.TrafficTool, trafficArgs...)
	if err == nil {
		report.Source = domain.ProcessSourceTraffic
		report.Processes = withLabels(Rank(ParseTrafficOutput(out), a.cfg.TopN))
		return report
	}
	a.log.Debug("traffic: primary tool failed, falling back", "tool", a.cfg.TrafficTool, "error", err)

	out, err = a.runner.Run(ctx, a.cfg.ConnectionTool, connectionArgs...)
	if err == nil {
		report.Source = domain.ProcessSourceConnections
		report.Processes = withLabels(ParseConnectionOutput(out, a.cfg.TopN))
		return report
	}
	a.log.Debug("traffic: connection tool failed", "tool", a.cfg.ConnectionTool, "error", err)

	report.Source = domain.ProcessSourceNone
	report.Processes = []domain.ProcessTraffic{}
	return report
}

func (a *Attributor) Start(ctx context.Context) {
	if a.sched.Start(ctx) {
		a.log.Info("traffic attributor started", "interval", a.cfg.Interval, "tool", a.cfg.TrafficTool)
	}
}

// Stop is idempotent. A tool invocation already in flight finishes or hits
// its timeout first.
func (a *Attributor) Stop() {
	a.sched.Stop()
}

func (a *Attributor) run(ctx context.Context) {
	report := a.Poll(ctx)
	if ctx.Err() != nil || a.publish == nil {
		return
	}
	a.publish(report)
}

func withLabels(procs []domain.ProcessTraffic) []domain.ProcessTraffic {
	for i := range procs {
		procs[i].DownloadLabel = pkg.FormatRate(procs[i].DownloadBytes)
		procs[i].UploadLabel = pkg.FormatRate(procs[i].UploadBytes)
	}
	return procs
}
