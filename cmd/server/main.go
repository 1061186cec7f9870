package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobby-s-dev/weather-maps/internal/api"
	"github.com/bobby-s-dev/weather-maps/internal/config"
	"github.com/bobby-s-dev/weather-maps/internal/logger"
	"github.com/bobby-s-dev/weather-maps/internal/scheduler"
	"github.com/bobby-s-dev/weather-maps/internal/services"
	"github.com/bobby-s-dev/weather-maps/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger := logger.New(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting weather service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	weatherClient := client.NewOpenWeatherClient(cfg.ClientConfig(), logger)
	weatherService := services.NewWeatherService(weatherClient, logger)

	var weatherScheduler *scheduler.Scheduler
	if cfg.Scheduler.Schedule != "" && len(cfg.Scheduler.DefaultCities) > 0 {
		weatherScheduler = scheduler.NewScheduler(
			weatherService,
			cfg.Scheduler.DefaultCities,
			cfg.Scheduler.Schedule,
			nil,
			logger,
		)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	handler := api.NewHandler(weatherService, logger)
	api.SetupRoutes(app, handler, logger)

	if weatherScheduler != nil {
		if err := weatherScheduler.Start(); err != nil {
			logger.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

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

	if weatherScheduler != nil {
		weatherScheduler.Stop(ctx)
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
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
