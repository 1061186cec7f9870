package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobby-s-dev/weather-maps/pkg/client"
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

	WeatherAPI struct {
		APIKey  string
		BaseURL string
		Timeout time.Duration
	}

	Scheduler struct {
		Schedule      string
		DefaultCities []string
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Weather API configuration
	cfg.WeatherAPI.APIKey = getEnv("WEATHER_API_KEY", os.Getenv("OPENWEATHER_API_KEY"))
	cfg.WeatherAPI.BaseURL = getEnv("OPENWEATHER_URL", client.DefaultBaseURL)
	cfg.WeatherAPI.Timeout = parseDuration(getEnv("HTTP_TIMEOUT", "0s"))

	// Scheduler configuration; an empty schedule disables the refresher
	cfg.Scheduler.Schedule = os.Getenv("REFRESH_SCHEDULE")
	if _, set := os.LookupEnv("REFRESH_SCHEDULE"); !set {
		cfg.Scheduler.Schedule = "@every 15m"
	}
	cfg.Scheduler.DefaultCities = splitCities(getEnv("DEFAULT_CITIES", "Prague,London,New York"))

	// Circuit breaker configuration
	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "0"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.WeatherAPI.APIKey == "" {
		return errors.New("WEATHER_API_KEY is required")
	}
	if c.CircuitBreaker.Threshold < 0 {
		return errors.New("CIRCUIT_BREAKER_THRESHOLD must not be negative")
	}
	return nil
}

// ClientConfig converts the loaded settings for the OpenWeatherMap client.
func (c *Config) ClientConfig() client.ClientConfig {
	return client.ClientConfig{
		APIKey:         c.WeatherAPI.APIKey,
		BaseURL:        c.WeatherAPI.BaseURL,
		Timeout:        c.WeatherAPI.Timeout,
		Threshold:      c.CircuitBreaker.Threshold,
		BreakerTimeout: c.CircuitBreaker.Timeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitCities(value string) []string {
	var cities []string
	for _, city := range strings.Split(value, ",") {
		if city = strings.TrimSpace(city); city != "" {
			cities = append(cities, city)
		}
	}
	return cities
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}
