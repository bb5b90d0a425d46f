package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobby-s-dev/skyfall/internal/api"
	"github.com/bobby-s-dev/skyfall/internal/config"
	"github.com/bobby-s-dev/skyfall/internal/scheduler"
	"github.com/bobby-s-dev/skyfall/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting weather lookup service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger = newLogger(cfg.Server.LogLevel, logger)
	zap.ReplaceGlobals(logger)

	units, err := client.ParseUnits(cfg.OpenWeather.Units)
	if err != nil {
		logger.Fatal("Invalid unit system", zap.String("units", cfg.OpenWeather.Units), zap.Error(err))
	}

	weatherClient, err := client.NewOpenWeatherClient(cfg.OpenWeather.APIKey,
		client.WithTimeout(cfg.OpenWeather.Timeout),
		client.WithUnits(units),
		client.WithBaseURL(cfg.OpenWeather.BaseURL),
		client.WithLogger(logger.Named("openweather")),
	)
	if err != nil {
		logger.Fatal("Failed to initialize OpenWeatherMap client", zap.Error(err))
	}

	// Optional watcher for a single city
	var watcher *scheduler.Scheduler
	if cfg.Watch.City != "" {
		watcher, err = scheduler.NewScheduler(weatherClient, cfg.Watch.City, cfg.Watch.Schedule, logger)
		if err != nil {
			logger.Fatal("Failed to initialize scheduler", zap.Error(err))
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	var status api.StatusReporter
	if watcher != nil {
		status = watcher
	}
	handler := api.NewHandler(weatherClient, status, logger)
	api.SetupRoutes(app, handler)

	if watcher != nil {
		watcher.Start()
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		watcher.Stop()
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func newLogger(level string, fallback *zap.Logger) *zap.Logger {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		fallback.Warn("Unknown log level, keeping info", zap.String("level", level))
		return fallback
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = atomicLevel
	logger, err := zapConfig.Build()
	if err != nil {
		fallback.Warn("Failed to build logger", zap.Error(err))
		return fallback
	}
	return logger
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
