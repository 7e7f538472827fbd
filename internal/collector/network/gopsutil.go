package network

import (
	"context"

	psnet "github.com/shirou/gopsutil/v3/net"

	"netspeed-monitor/internal/domain"
)

type GopsutilSource struct{}

func NewGopsutilSource() *GopsutilSource {
	return &GopsutilSource{}
}

func (GopsutilSource) Interfaces(ctx context.Context) ([]domain.InterfaceSample, error) {
	counters, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}

	out := make([]domain.InterfaceSample, 0, len(counters))
	for _, c := range counters {
		out = append(out, domain.InterfaceSample{
			Name:          c.Name,
			ReceivedBytes: c.BytesRecv,
			SentBytes:     c.BytesSent,
		})
	}

	return out, nil
}
