package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 300*time.Second, cfg.PollingInterval.Duration())
	assert.Equal(t, "", cfg.AdminAddr)
	assert.True(t, cfg.TelemetryEnabled)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("AICF_LOG_LEVEL", "debug")
	t.Setenv("AICF_ADMIN_ADDR", "127.0.0.1:9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9090", cfg.AdminAddr)
}
