package network

import (
	"context"

	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/logger"
)

// Source enumerates interfaces that expose link-layer byte counters.
// Interfaces without those statistics are left out, not reported as errors.
type Source interface {
	Interfaces(ctx context.Context) ([]domain.InterfaceSample, error)
}

// Filter decides whether an interface contributes to the aggregate.
type Filter func(name string) bool

type Collector struct {
	source Source
	accept Filter
	log    logger.Logger
}
