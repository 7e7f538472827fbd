package network

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/logger"
)

type fakeSource struct {
	ifaces []domain.InterfaceSample
	err    error
}

func (f fakeSource) Interfaces(context.Context) ([]domain.InterfaceSample, error) {
	return f.ifaces, f.err
}

var sampleIfaces = []domain.InterfaceSample{
	{Name: "lo0", ReceivedBytes: 5000, SentBytes: 5000},
	{Name: "en0", ReceivedBytes: 1000, SentBytes: 200},
	{Name: "en1", ReceivedBytes: 10, SentBytes: 20},
	{Name: "utun2", ReceivedBytes: 300, SentBytes: 400},
}

func TestSampleSumsAcceptedInterfaces(t *testing.T) {
	c := NewCollector(fakeSource{ifaces: sampleIfaces}, nil, logger.Nop())

	got, err := c.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AggregateCounters{TotalReceived: 1310, TotalSent: 620}, got)
}

func TestSampleStrictFilter(t *testing.T) {
	c := NewCollector(fakeSource{ifaces: sampleIfaces}, EthernetOnly, logger.Nop())

	got, err := c.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AggregateCounters{TotalReceived: 1010, TotalSent: 220}, got)
}

func TestSampleLogsFilteredInterfaces(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := NewCollector(fakeSource{ifaces: sampleIfaces}, EthernetOnly, logger.FromZap(zap.New(core)))

	_, err := c.Sample(context.Background())
	require.NoError(t, err)

	entries := logs.FilterMessage("network: interfaces filtered out").All()
	require.Len(t, entries, 1)
	assert.Equal(t, []any{"lo0", "utun2"}, entries[0].ContextMap()["interfaces"])

	c = NewCollector(fakeSource{ifaces: sampleIfaces[1:2]}, EthernetOnly, logger.FromZap(zap.New(core)))
	_, err = c.Sample(context.Background())
	require.NoError(t, err)
	assert.Len(t, logs.FilterMessage("network: interfaces filtered out").All(), 1, "nothing filtered, nothing logged")
}

func TestSampleEnumerationFailure(t *testing.T) {
	c := NewCollector(fakeSource{err: errors.New("getifaddrs failed")}, nil, logger.Nop())

	_, err := c.Sample(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIOUnavailable)
}

func TestNewFilter(t *testing.T) {
	f := NewFilter([]string{"en*", "wl*"}, []string{"en5"})

	assert.True(t, f("en0"))
	assert.True(t, f("wlan0"))
	assert.False(t, f("en5"))
	assert.False(t, f("utun0"))

	all := NewFilter(nil, []string{"lo*"})
	assert.True(t, all("bridge0"))
	assert.False(t, all("lo"))
}

const netDev = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo:  900000    100    0    0    0     0          0         0   900000     100    0    0    0     0       0          0
  eth0: 1500 10 0 0 0 0 0 0 700 8 0 0 0 0 0 0
wlan0:4096 20 0 0 0 0 0 0 2048 12 0 0 0 0 0 0
 bogus: 1 2 3
`

func TestParseNetDev(t *testing.T) {
	got, err := parseNetDev(strings.NewReader(netDev))
	require.NoError(t, err)

	assert.Equal(t, []domain.InterfaceSample{
		{Name: "lo", ReceivedBytes: 900000, SentBytes: 900000},
		{Name: "eth0", ReceivedBytes: 1500, SentBytes: 700},
		{Name: "wlan0", ReceivedBytes: 4096, SentBytes: 2048},
	}, got)
}

func TestProcSourceWithCollector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev")
	require.NoError(t, os.WriteFile(path, []byte(netDev), 0o644))

	c := NewCollector(NewProcSource(path), DefaultFilter, logger.Nop())
	got, err := c.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AggregateCounters{TotalReceived: 5596, TotalSent: 2748}, got)
}

func TestProcSourceMissingFile(t *testing.T) {
	c := NewCollector(NewProcSource(filepath.Join(t.TempDir(), "missing")), nil, logger.Nop())

	_, err := c.Sample(context.Background())
	assert.ErrorIs(t, err, domain.ErrIOUnavailable)
}
