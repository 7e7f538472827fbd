package probe

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"time"

	"netspeed-monitor/internal/domain"
)

var (
	currentPlatform = runtime.GOOS
	pingTimePattern = regexp.MustCompile(`time=(\d+\.?\d*)`)
)

func (p *Prober) ProbePing(ctx context.Context) {
	out, err := p.runner.Run(ctx, "ping", p.pingArgs()...)
	latency, ok := ParsePingLatency(out)

	if err != nil || !ok {
		p.log.Debug("probe: ping failed", "host", p.cfg.PingHost, "error", err)
		p.update(func(s *domain.NetworkInfoSnapshot) {
			s.PingLatency = domain.PingTimeout
			s.Health = domain.HealthPoor
			s.PacketLoss = "100%"
		})
		return
	}

	health := domain.HealthGood
	if p.cfg.FairThreshold > 0 && latency.Duration > p.cfg.FairThreshold {
		health = domain.HealthFair
	}

	p.update(func(s *domain.NetworkInfoSnapshot) {
		s.PingLatency = latency.Label
		s.Health = health
		s.PacketLoss = "0%"
	})
}

// pingArgs sends one echo with a bounded wait. BSD ping takes the wait in
// seconds via -t, iputils via -W.
func (p *Prober) pingArgs() []string {
	wait := max(int(p.cfg.PingTimeout/time.Second), 1)

	flag := "-W"
	if p.goos == "darwin" || p.goos == "freebsd" {
		flag = "-t"
	}

	return []string{"-c", "1", flag, strconv.Itoa(wait), p.cfg.PingHost}
}

type Latency struct {
	Label    string
	Duration time.Duration
}

// ParsePingLatency extracts the round-trip time from ping output. The label
// keeps the number exactly as the tool printed it.
func ParsePingLatency(out string) (Latency, bool) {
	m := pingTimePattern.FindStringSubmatch(out)
	if m == nil {
		return Latency{}, false
	}

	ms, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Latency{}, false
	}

	return Latency{
		Label:    fmt.Sprintf("%s ms", m[1]),
		Duration: time.Duration(ms * float64(time.Millisecond)),
	}, true
}
