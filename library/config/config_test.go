package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig_OptionsSurviveEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg := NewConfig(
		WithLogLevel(zapcore.DebugLevel),
		WithWriteTimeout(time.Minute),
	)

	require.Equal(t, zapcore.DebugLevel, cfg.Log.LogLevel)
	require.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	require.Equal(t, 7*24*time.Hour, cfg.Policy.LoanPeriod)
	require.Equal(t, time.Hour, cfg.Notify.LateFeeDelay)
	require.Equal(t, 720*time.Hour, cfg.Jobs.ReengageInterval)
	require.Same(t, cfg, NewConfig())
}
