package services

import (
	"context"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-maps/internal/models"
	"github.com/bobby-s-dev/weather-maps/pkg/client"
	"go.uber.org/zap"
)

type WeatherClient interface {
	Fetch(ctx context.Context, q models.WeatherQuery) (models.WeatherRecord, error)
}

// WeatherService fronts the weather client for the API and the scheduler.
// It counts outcomes but keeps no weather data between calls.
type WeatherService struct {
	client        WeatherClient
	logger        *zap.Logger
	mu            sync.RWMutex
	lastFetchTime time.Time
	successCount  int
	failureCount  int
	failures      map[client.FetchErrorKind]int
}

func NewWeatherService(c WeatherClient, logger *zap.Logger) *WeatherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherService{
		client:   c,
		logger:   logger,
		failures: make(map[client.FetchErrorKind]int),
	}
}

func (s *WeatherService) Current(ctx context.Context, q models.WeatherQuery) (models.WeatherRecord, error) {
	record, err := s.client.Fetch(ctx, q)
	s.record(err)
	return record, err
}

// FetchAll fetches every query concurrently. Results keep the order of queries.
func (s *WeatherService) FetchAll(ctx context.Context, queries []models.WeatherQuery) []client.Result {
	results := make([]client.Result, len(queries))

	var wg sync.WaitGroup
	startTime := time.Now()

	for i, q := range queries {
		wg.Add(1)
		go func(i int, q models.WeatherQuery) {
			defer wg.Done()
			record, err := s.Current(ctx, q)
			results[i] = client.Result{Query: q, Record: record, Err: err}
		}(i, q)
	}

	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Info("Weather fetch completed",
		zap.Int("queries", len(queries)),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(startTime)))

	return results
}

func (s *WeatherService) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFetchTime = time.Now()
	if err != nil {
		s.failureCount++
		s.failures[client.KindOf(err)]++
		return
	}
	s.successCount++
}

func (s *WeatherService) GetLastFetchTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFetchTime
}

func (s *WeatherService) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	failures := make(map[string]int, len(s.failures))
	for kind, count := range s.failures {
		failures[kind.String()] = count
	}

	return map[string]interface{}{
		"last_fetch_time": s.lastFetchTime,
		"success_count":   s.successCount,
		"failure_count":   s.failureCount,
		"failures":        failures,
	}
}
