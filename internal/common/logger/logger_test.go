package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")

	log, err := NewStructured(Options{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.WithFields(map[string]interface{}{"taskType": "check-property-eligibility"}).
		Info("processing job", map[string]interface{}{"jobKey": int64(42)})
	log.Debug("hidden", nil)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"processing job"`)
	assert.Contains(t, string(data), `"taskType":"check-property-eligibility"`)
	assert.Contains(t, string(data), `"jobKey":42`)
	assert.NotContains(t, string(data), "hidden")
}

func TestWrapper_CarriesFieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.With(map[string]interface{}{"applicantId": "a-1"}).
		WithError(errors.New("boom")).
		Warn("cache miss", map[string]interface{}{"key": "profile:a-1"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "cache miss", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	ctx := entry.ContextMap()
	assert.Equal(t, "a-1", ctx["applicantId"])
	assert.Equal(t, "profile:a-1", ctx["key"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNoOpAndTestLoggers(t *testing.T) {
	NewNoOpLogger().Error("ignored", map[string]interface{}{"k": "v"})
	NewTestLogger(t).Info("visible in -v output", nil)
}
