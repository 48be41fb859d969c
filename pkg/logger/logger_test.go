package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/bookwise/library-service/pkg/logger"
)

func TestNewLogger_Sink(t *testing.T) {
	t.Parallel()
	sink := filepath.Join(t.TempDir(), "library.log")

	log := logger.NewLogger(logger.Log{LogLevel: zapcore.InfoLevel, Sink: sink}, "test")
	log.Debug("hidden")
	log.Info("visible")
	_ = log.Sync() //nolint:errcheck

	data, err := os.ReadFile(sink)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"visible"`)
	require.NotContains(t, string(data), "hidden")
}

func TestNewLogger_BadSinkFallsBackToStdout(t *testing.T) {
	t.Parallel()
	sink := filepath.Join(t.TempDir(), "missing", "dir", "library.log")

	require.NotPanics(t, func() {
		log := logger.NewLogger(logger.Log{Sink: sink}, "test")
		require.NotNil(t, log)
		log.Info("still logging")
	})
	_, err := os.Stat(sink)
	require.True(t, os.IsNotExist(err))
}

func TestLog_EnvOverridesPreset(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg := logger.Log{LogLevel: zapcore.DebugLevel}
	require.NoError(t, envconfig.Process("", &cfg))
	require.Equal(t, zapcore.DebugLevel, cfg.LogLevel)

	t.Setenv("LOG_LEVEL", "warn")
	require.NoError(t, envconfig.Process("", &cfg))
	require.Equal(t, zapcore.WarnLevel, cfg.LogLevel)

	var zero logger.Log
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
	require.NoError(t, envconfig.Process("", &zero))
	require.Equal(t, zapcore.InfoLevel, zero.LogLevel)
}
