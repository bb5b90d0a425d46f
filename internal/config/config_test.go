package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{
		"FIBER_PORT", "FIBER_READ_TIMEOUT", "FIBER_WRITE_TIMEOUT", "LOG_LEVEL",
		"OPENWEATHER_API_KEY", "OPENWEATHER_TIMEOUT", "OPENWEATHER_UNITS", "OPENWEATHER_BASE_URL",
		"WATCH_CITY", "WATCH_SCHEDULE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "", cfg.OpenWeather.APIKey)
	assert.Equal(t, 10*time.Second, cfg.OpenWeather.Timeout)
	assert.Equal(t, "metric", cfg.OpenWeather.Units)
	assert.Equal(t, "", cfg.Watch.City)
	assert.Equal(t, "@every 15m", cfg.Watch.Schedule)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "abc123")
	t.Setenv("OPENWEATHER_TIMEOUT", "2500ms")
	t.Setenv("OPENWEATHER_UNITS", "imperial")
	t.Setenv("WATCH_CITY", "Prague")
	t.Setenv("WATCH_SCHEDULE", "*/5 * * * *")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.OpenWeather.APIKey)
	assert.Equal(t, 2500*time.Millisecond, cfg.OpenWeather.Timeout)
	assert.Equal(t, "imperial", cfg.OpenWeather.Units)
	assert.Equal(t, "Prague", cfg.Watch.City)
	assert.Equal(t, "*/5 * * * *", cfg.Watch.Schedule)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENWEATHER_TIMEOUT", "ten seconds")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "OPENWEATHER_TIMEOUT")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
