package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "nosuspend", cfg.AppName)
	assert.True(t, cfg.Run.Suspend)
	assert.False(t, cfg.Run.Display)
	assert.False(t, cfg.Run.AwayMode)
	assert.True(t, cfg.Run.Inherit)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("NOSUSPEND_RUN_DISPLAY", "true")
	t.Setenv("NOSUSPEND_APP_NAME", "custom")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Run.Display)
	assert.Equal(t, "custom", cfg.AppName)
}
