package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":3000", cfg.Address)
	assert.Equal(t, time.Second, cfg.SpeedInterval)
	assert.Equal(t, float64(10*1024*1024), cfg.MaxSpeedBytes)
	assert.Equal(t, 20, cfg.HistorySize)
	assert.Equal(t, []string{"lo*"}, cfg.ExcludeIfaces)
	assert.Empty(t, cfg.IncludeIfaces)
	assert.Equal(t, "en0", cfg.PrimaryInterface)
	assert.Equal(t, "8.8.8.8", cfg.PingHost)
	assert.Equal(t, 2*time.Second, cfg.PingTimeout)
	assert.Equal(t, 3*time.Second, cfg.ProcessInterval)
	assert.Equal(t, 2*time.Second, cfg.ProcessToolTimeout)
	assert.Equal(t, 5, cfg.ProcessTopN)
	assert.Equal(t, time.Duration(0), cfg.ProbeRefreshInterval)

	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SPEED_INTERVAL", "500ms")
	t.Setenv("INTERFACE_INCLUDE", "en*, eth*")
	t.Setenv("INTERFACE_EXCLUDE", "")
	t.Setenv("PROCESS_TOP_N", "10")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("MAX_SPEED_BYTES", "1048576")

	cfg := Load()

	assert.Equal(t, 500*time.Millisecond, cfg.SpeedInterval)
	assert.Equal(t, []string{"en*", "eth*"}, cfg.IncludeIfaces)
	assert.Empty(t, cfg.ExcludeIfaces)
	assert.Equal(t, 10, cfg.ProcessTopN)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, float64(1048576), cfg.MaxSpeedBytes)
	require.NoError(t, cfg.Validate())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SPEED_INTERVAL", "soon")
	t.Setenv("HISTORY_SIZE", "many")

	cfg := Load()

	assert.Equal(t, time.Second, cfg.SpeedInterval)
	assert.Equal(t, 20, cfg.HistorySize)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Load()
	cfg.CounterSource = "sysctl"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.HistorySize = 0
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())
}
