// Package network
package network

import (
	"context"
	"fmt"

	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/logger"
	"netspeed-monitor/pkg"
)

func NewCollector(source Source, accept Filter, log logger.Logger) *Collector {
	if accept == nil {
		accept = DefaultFilter
	}

	return &Collector{
		source: source,
		accept: accept,
		log:    log,
	}
}

func (c *Collector) Sample(ctx context.Context) (domain.AggregateCounters, error) {
	ifaces, err := c.source.Interfaces(ctx)
	if err != nil {
		return domain.AggregateCounters{}, fmt.Errorf("%w: %v", domain.ErrIOUnavailable, err)
	}

	var (
		total   domain.AggregateCounters
		skipped []string
	)
	for _, iface := range ifaces {
		if !c.accept(iface.Name) {
			skipped = append(skipped, iface.Name)
			continue
		}

		total.TotalReceived += iface.ReceivedBytes
		total.TotalSent += iface.SentBytes
	}

	if len(skipped) > 0 {
		c.log.Debug("network: interfaces filtered out", "interfaces", skipped)
	}

	return total, nil
}

// DefaultFilter accepts everything except loopback.
func DefaultFilter(name string) bool {
	return !pkg.MatchAny(name, []string{"lo*"})
}

// EthernetOnly is the strict policy: only en* interfaces are counted.
func EthernetOnly(name string) bool {
	return pkg.MatchAny(name, []string{"en*"})
}

// NewFilter accepts names matching include (or any name when include is
// empty) that do not match exclude.
func NewFilter(include, exclude []string) Filter {
	return func(name string) bool {
		if len(include) > 0 && !pkg.MatchAny(name, include) {
			return false
		}
		return !pkg.MatchAny(name, exclude)
	}
}
