package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/bobby-s-dev/weather-maps/internal/models"
	"github.com/bobby-s-dev/weather-maps/internal/services"
	"github.com/bobby-s-dev/weather-maps/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var startTime = time.Now()

type Handler struct {
	service *services.WeatherService
	logger  *zap.Logger
}

func NewHandler(service *services.WeatherService, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetCurrentWeather handles GET /api/v1/weather?city= or ?lat=&lon=
func (h *Handler) GetCurrentWeather(c *fiber.Ctx) error {
	query, err := parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   err.Error(),
			"kind":    client.InvalidQuery.String(),
			"success": false,
		})
	}

	h.logger.Info("Fetching current weather", zap.Stringer("query", query))

	record, err := h.service.Current(c.UserContext(), query)
	if err != nil {
		h.logger.Error("Failed to get current weather",
			zap.Stringer("query", query),
			zap.Error(err))

		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error":   err.Error(),
			"kind":    client.KindOf(err).String(),
			"success": false,
		})
	}

	return c.JSON(record)
}

func parseQuery(c *fiber.Ctx) (models.WeatherQuery, error) {
	if city := c.Query("city"); city != "" {
		return models.ByCity(city), nil
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return models.WeatherQuery{}, errors.New("either city or lat and lon parameters are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return models.WeatherQuery{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return models.WeatherQuery{}, errors.New("lon must be a number")
	}
	return models.ByCoordinates(lat, lon), nil
}

func statusFor(err error) int {
	var fe *client.FetchError
	if !errors.As(err, &fe) {
		return fiber.StatusInternalServerError
	}

	switch fe.Kind {
	case client.InvalidQuery:
		return fiber.StatusBadRequest
	case client.HTTPError:
		// 4xx from upstream (unknown city, bad key) are passed through
		if fe.Status >= 400 && fe.Status < 500 {
			return fe.Status
		}
		return fiber.StatusBadGateway
	case client.TransportError:
		if client.IsBreakerOpen(err) {
			return fiber.StatusServiceUnavailable
		}
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadGateway
	}
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "healthy",
		"timestamp":  time.Now(),
		"last_fetch": h.service.GetLastFetchTime(),
		"uptime":     time.Since(startTime).String(),
	})
}

// GetMetrics handles GET /api/v1/metrics
func (h *Handler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"metrics":   h.service.GetStats(),
		"timestamp": time.Now(),
	})
}
