package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	OpenWeather struct {
		APIKey  string
		Timeout time.Duration
		Units   string
		BaseURL string
	}

	Watch struct {
		City     string
		Schedule string
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}
	var err error

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	if cfg.Server.ReadTimeout, err = parseDuration("FIBER_READ_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDuration("FIBER_WRITE_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// OpenWeatherMap configuration; validated by the client constructor
	cfg.OpenWeather.APIKey = getEnv("OPENWEATHER_API_KEY", "")
	if cfg.OpenWeather.Timeout, err = parseDuration("OPENWEATHER_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.OpenWeather.Units = getEnv("OPENWEATHER_UNITS", "metric")
	cfg.OpenWeather.BaseURL = getEnv("OPENWEATHER_BASE_URL", "")

	// Watcher configuration
	cfg.Watch.City = getEnv("WATCH_CITY", "")
	cfg.Watch.Schedule = getEnv("WATCH_SCHEDULE", "@every 15m")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return duration, nil
}
