package orrery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLogger_SetDebug(t *testing.T) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	core, logs := observer.New(level)
	log := NewLoggerFromCore(core, level)

	log.Debugf("hidden %d", 1)
	assert.False(t, log.DebugEnabled())

	log.SetDebug(true)
	assert.True(t, log.DebugEnabled())
	log.Debugf("shown %d", 2)
	log.Infof("info")
	log.Warnf("warn")
	log.Errorf("error")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "shown 2", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)

	log.SetDebug(false)
	log.Debugf("hidden again")
	assert.Equal(t, 4, logs.Len())
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(LogOptions{Prefix: "test", Encoding: "json", Debug: true})
	require.NoError(t, err)
	assert.True(t, l.DebugEnabled())

	_, err = NewLogger(LogOptions{Encoding: "xml"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLoggerOrNop(t *testing.T) {
	l := LoggerOrNop(nil)
	require.NotNil(t, l)
	l.Infof("dropped")
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())

	custom := NewDefaultLogger("x", false)
	assert.Same(t, custom, LoggerOrNop(custom))
}
