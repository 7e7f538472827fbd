// Package probe gathers the slow-changing network facts shown next to the
// throughput figures: local and public address, Wi-Fi and ping latency.
package probe

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"netspeed-monitor/internal/command"
	"netspeed-monitor/internal/core"
	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/logger"
	"netspeed-monitor/internal/storage/snapshot"
)

type Config struct {
	PrimaryInterface string
	PublicIPURL      string
	PublicIPTimeout  time.Duration
	PingHost         string
	PingTimeout      time.Duration
	// FairThreshold marks health Fair when a parsed latency exceeds it. Zero
	// disables the Fair grade.
	FairThreshold time.Duration
	// RefreshInterval re-runs all probes periodically. Zero probes once.
	RefreshInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		PrimaryInterface: "en0",
		PublicIPURL:      "https://api.ipify.org?format=text",
		PublicIPTimeout:  5 * time.Second,
		PingHost:         "8.8.8.8",
		PingTimeout:      2 * time.Second,
	}
}

type Prober struct {
	cfg      Config
	runner   command.Runner
	client   *http.Client
	addrs    AddrLookup
	gateway  GatewayLookup
	wireless string
	goos     string
	clock    clock.Clock

	// pubMu keeps publishes in merge order.
	pubMu   sync.Mutex
	info    *snapshot.Store[domain.NetworkInfoSnapshot]
	publish func(domain.NetworkInfoSnapshot)
	log     logger.Logger

	mu     sync.Mutex
	sched  *core.Scheduler
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Prober)

func WithHTTPClient(c *http.Client) Option {
	return func(p *Prober) { p.client = c }
}

func WithAddrLookup(fn AddrLookup) Option {
	return func(p *Prober) { p.addrs = fn }
}

func WithGatewayLookup(fn GatewayLookup) Option {
	return func(p *Prober) { p.gateway = fn }
}

func WithWirelessPath(path string) Option {
	return func(p *Prober) { p.wireless = path }
}

// WithPlatform overrides runtime.GOOS for tool flag selection.
func WithPlatform(goos string) Option {
	return func(p *Prober) { p.goos = goos }
}

func WithClock(c clock.Clock) Option {
	return func(p *Prober) { p.clock = c }
}

func NewProber(cfg Config, runner command.Runner, publish func(domain.NetworkInfoSnapshot), log logger.Logger, opts ...Option) *Prober {
	p := &Prober{
		cfg:      cfg,
		runner:   runner,
		client:   &http.Client{Timeout: cfg.PublicIPTimeout},
		addrs:    gopsutilAddrs,
		gateway:  discoverGateway,
		wireless: defaultWirelessPath,
		goos:     currentPlatform,
		clock:    clock.New(),
		info:     snapshot.New(domain.InitialNetworkInfo()),
		publish:  publish,
		log:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Info returns the current merged snapshot.
func (p *Prober) Info() domain.NetworkInfoSnapshot {
	return p.info.Get()
}

// Run executes the four probes concurrently and returns once all of them
// finished. Each probe publishes its own result as soon as it has one.
func (p *Prober) Run(ctx context.Context) {
	probes := []func(context.Context){
		p.ProbeLocalIP,
		p.ProbePublicIP,
		p.ProbeWifi,
		p.ProbePing,
	}

	var wg sync.WaitGroup
	for _, probe := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			probe(ctx)
		}()
	}
	wg.Wait()
}

// Start runs every probe once in the background, then again on the refresh
// interval when one is configured. Calling Start on a running prober is a
// no-op.
func (p *Prober) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sched != nil || p.cancel != nil {
		return
	}

	if p.cfg.RefreshInterval > 0 {
		p.sched = core.NewScheduler("probe", p.cfg.RefreshInterval, p.log, p.Run, core.WithClock(p.clock))
		p.sched.Start(ctx)
		p.log.Info("prober started", "refresh", p.cfg.RefreshInterval)
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done

	go func() {
		defer close(done)
		p.Run(runCtx)
	}()
	p.log.Info("prober started", "refresh", "off")
}

// Stop cancels pending probes and waits for in-flight ones. Safe to call more
// than once.
func (p *Prober) Stop() {
	p.mu.Lock()
	sched, cancel, done := p.sched, p.cancel, p.done
	p.sched, p.cancel, p.done = nil, nil, nil
	p.mu.Unlock()

	if sched != nil {
		sched.Stop()
	}
	if cancel != nil {
		cancel()
		<-done
	}
}

func (p *Prober) update(fn func(*domain.NetworkInfoSnapshot)) {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()

	snap := p.info.Update(fn)
	if p.publish != nil {
		p.publish(snap)
	}
}
