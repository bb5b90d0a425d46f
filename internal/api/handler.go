package api

import (
	"context"
	"errors"
	"time"

	"github.com/bobby-s-dev/skyfall/internal/models"
	"github.com/bobby-s-dev/skyfall/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Fetcher interface {
	FetchWeather(ctx context.Context, city string) (*models.WeatherReport, error)
}

type StatusReporter interface {
	GetStatus() map[string]interface{}
}

type Handler struct {
	fetcher   Fetcher
	scheduler StatusReporter
	logger    *zap.Logger
	startTime time.Time
}

// NewHandler builds the HTTP handler. scheduler may be nil when no city is watched.
func NewHandler(fetcher Fetcher, scheduler StatusReporter, logger *zap.Logger) *Handler {
	return &Handler{
		fetcher:   fetcher,
		scheduler: scheduler,
		logger:    logger,
		startTime: time.Now(),
	}
}

// GetCurrentWeather handles GET /api/v1/weather/current
func (h *Handler) GetCurrentWeather(c *fiber.Ctx) error {
	city := c.Query("city")

	report, err := h.fetcher.FetchWeather(c.UserContext(), city)
	if err != nil {
		code := statusFor(err)
		if code >= fiber.StatusInternalServerError {
			h.logger.Error("Failed to get current weather",
				zap.String("city", city),
				zap.String("kind", client.KindOf(err).String()),
				zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   errorMessage(err),
			"kind":    client.KindOf(err).String(),
			"success": false,
		})
	}

	return c.JSON(report)
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startTime).String(),
	}
	if h.scheduler != nil {
		body["scheduler"] = h.scheduler.GetStatus()
	}

	return c.JSON(body)
}

func statusFor(err error) int {
	var clientErr *client.Error
	if !errors.As(err, &clientErr) {
		return fiber.StatusInternalServerError
	}

	switch clientErr.Kind {
	case client.KindInvalidArgument:
		return fiber.StatusBadRequest
	case client.KindAPIRejected:
		if clientErr.StatusCode == fiber.StatusNotFound {
			return fiber.StatusNotFound
		}
		return fiber.StatusBadGateway
	case client.KindMalformedResponse:
		return fiber.StatusBadGateway
	case client.KindUnreachable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// errorMessage hides transport details from HTTP callers.
func errorMessage(err error) string {
	var clientErr *client.Error
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	return "Failed to fetch weather data"
}
