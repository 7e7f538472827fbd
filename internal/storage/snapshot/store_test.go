package snapshot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netspeed-monitor/internal/domain"
)

func TestStoreSetGet(t *testing.T) {
	s := New(3)
	assert.Equal(t, 3, s.Get())

	s.Set(7)
	assert.Equal(t, 7, s.Get())
}

func TestStoreUpdateKeepsOtherFields(t *testing.T) {
	s := New(domain.InitialNetworkInfo())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Update(func(v *domain.NetworkInfoSnapshot) { v.LocalIP = "192.168.1.10" })
	}()
	go func() {
		defer wg.Done()
		s.Update(func(v *domain.NetworkInfoSnapshot) {
			v.PingLatency = "12.3 ms"
			v.Health = domain.HealthGood
		})
	}()
	wg.Wait()

	got := s.Get()
	assert.Equal(t, "192.168.1.10", got.LocalIP)
	assert.Equal(t, "12.3 ms", got.PingLatency)
	assert.Equal(t, domain.HealthGood, got.Health)
	assert.Equal(t, domain.PublicIPPending, got.PublicIP)
}

func TestLatestDefaults(t *testing.T) {
	l := NewLatest(20)

	speed := l.Speed()
	assert.Equal(t, make([]float64, 20), speed.History)
	assert.Equal(t, "     0 B /s", speed.DownloadLabel)
	assert.Equal(t, "     0 B /s", speed.UploadLabel)
	assert.Equal(t, "     0 B ", speed.TodayLabel)
	assert.Equal(t, "     0 B ", speed.MonthLabel)
	assert.Zero(t, speed.DownloadBytesPerSec)

	assert.Equal(t, domain.InitialNetworkInfo(), l.Info())

	procs := l.Processes()
	assert.Equal(t, domain.ProcessSourceNone, procs.Source)
	require.NotNil(t, procs.Processes)
	assert.Empty(t, procs.Processes)
}

func TestLatestCopiesSlices(t *testing.T) {
	l := NewLatest(20)

	history := []float64{0.1, 0.2}
	l.SetSpeed(domain.SpeedSnapshot{History: history})
	history[0] = 1

	got := l.Speed()
	assert.Equal(t, []float64{0.1, 0.2}, got.History)

	got.History[1] = 9
	assert.Equal(t, 0.2, l.Speed().History[1])

	l.SetProcesses(domain.ProcessReport{Source: domain.ProcessSourceTraffic})
	assert.NotNil(t, l.Processes().Processes)
}
