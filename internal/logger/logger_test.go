package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromZapKeyValues(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core)).With("component", "engine")

	log.Info("tick", "download", uint64(42))
	log.Debug("skipped")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "tick", entries[0].Message)
		fields := entries[0].ContextMap()
		assert.Equal(t, "engine", fields["component"])
		assert.Equal(t, uint64(42), fields["download"])
	}
}

func TestNopDoesNotPanic(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.Error("boom", "error", assert.AnError)
		log.With("k", "v").Warn("still quiet")
	})
}
