package snapshot

import (
	"slices"

	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/pkg"
)

// Latest holds the most recent snapshot of every concern for pull-style
// readers such as the REST handlers.
type Latest struct {
	speed     Store[domain.SpeedSnapshot]
	info      Store[domain.NetworkInfoSnapshot]
	processes Store[domain.ProcessReport]
}

// NewLatest seeds every concern so readers never see a zero value: speed
// starts at zero with historySize empty points.
func NewLatest(historySize int) *Latest {
	l := &Latest{}
	l.speed.Set(domain.SpeedSnapshot{
		DownloadLabel: pkg.FormatSpeed(0),
		UploadLabel:   pkg.FormatSpeed(0),
		TodayLabel:    pkg.FormatBytes(0),
		MonthLabel:    pkg.FormatBytes(0),
		History:       make([]float64, max(historySize, 0)),
	})
	l.info.Set(domain.InitialNetworkInfo())
	l.processes.Set(domain.ProcessReport{Source: domain.ProcessSourceNone, Processes: []domain.ProcessTraffic{}})
	return l
}

func (l *Latest) SetSpeed(s domain.SpeedSnapshot) {
	s.History = slices.Clone(s.History)
	l.speed.Set(s)
}

func (l *Latest) SetInfo(s domain.NetworkInfoSnapshot) { l.info.Set(s) }

func (l *Latest) SetProcesses(r domain.ProcessReport) {
	r.Processes = slices.Clone(r.Processes)
	if r.Processes == nil {
		r.Processes = []domain.ProcessTraffic{}
	}
	l.processes.Set(r)
}

func (l *Latest) Speed() domain.SpeedSnapshot {
	s := l.speed.Get()
	s.History = slices.Clone(s.History)
	return s
}

func (l *Latest) Info() domain.NetworkInfoSnapshot { return l.info.Get() }

func (l *Latest) Processes() domain.ProcessReport {
	r := l.processes.Get()
	r.Processes = slices.Clone(r.Processes)
	return r
}
