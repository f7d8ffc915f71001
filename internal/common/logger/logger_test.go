package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "create-job"})

	log.Debug("hidden", nil)
	log.Info("job created", map[string]interface{}{"jobId": "abc", "error": errors.New("boom")})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "job created", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "create-job", ctx["taskType"])
	assert.Equal(t, "abc", ctx["jobId"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestZapWrapper_WithError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithError(errors.New("store unavailable"))

	log.Warn("cache refresh failed", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "store unavailable", logs.All()[0].ContextMap()["error"])
}

func TestNew_LevelParsing(t *testing.T) {
	assert.True(t, New("debug", "console").Core().Enabled(zapcore.DebugLevel))
	assert.False(t, New("warn", "json").Core().Enabled(zapcore.InfoLevel))
	assert.True(t, New("bogus", "json").Core().Enabled(zapcore.InfoLevel))
}

func TestNoOpAndTestLoggers(t *testing.T) {
	NewNoOpLogger().Error("ignored", map[string]interface{}{"k": 1})
	NewTestLogger(t).With(map[string]interface{}{"k": 1}).Info("visible in -v output", nil)
}
