package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-maps/internal/models"
	"github.com/bobby-s-dev/weather-maps/internal/services"
	"github.com/bobby-s-dev/weather-maps/pkg/client"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler periodically fetches a fixed city list and hands every result to a listener.
type Scheduler struct {
	service  *services.WeatherService
	listener client.Listener
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	cities   []string
	running  bool
	lastRun  time.Time
	entryID  cron.EntryID
}

func NewScheduler(service *services.WeatherService, cities []string, schedule string, listener client.Listener, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if listener == nil {
		listener = NewLogListener(logger)
	}
	return &Scheduler{
		service:  service,
		listener: listener,
		logger:   logger,
		schedule: schedule,
		cities:   cities,
		cron: cron.New(
			cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(logger))),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	id, err := s.cron.AddFunc(s.schedule, s.RunNow)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.schedule, err)
	}
	s.entryID = id
	s.cron.Start()
	s.running = true

	s.logger.Info("Scheduler started",
		zap.String("schedule", s.schedule),
		zap.Time("next_run", s.cron.Entry(id).Next))
	return nil
}

// RunNow fetches all cities once and dispatches the results.
func (s *Scheduler) RunNow() {
	s.mu.Lock()
	s.lastRun = time.Now()
	cities := append([]string(nil), s.cities...)
	s.mu.Unlock()

	queries := make([]models.WeatherQuery, len(cities))
	for i, city := range cities {
		queries[i] = models.ByCity(city)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, result := range s.service.FetchAll(ctx, queries) {
		result.Dispatch(s.listener)
	}
}

// Stop halts the schedule and waits for a running refresh, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out", zap.Error(ctx.Err()))
	}

	// Start registers the job again.
	s.cron.Remove(s.entryID)
}

func (s *Scheduler) UpdateCities(cities []string) {
	s.mu.Lock()
	s.cities = cities
	s.mu.Unlock()

	s.logger.Info("Scheduler cities updated", zap.Strings("cities", cities))
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":  s.running,
		"schedule": s.schedule,
		"last_run": s.lastRun,
		"cities":   s.cities,
	}
	if s.running {
		status["next_run"] = s.cron.Entry(s.entryID).Next
	}
	return status
}

// LogListener writes fetch results to the log.
type LogListener struct {
	logger *zap.Logger
}

func NewLogListener(logger *zap.Logger) *LogListener {
	return &LogListener{logger: logger}
}

func (l *LogListener) OnWeatherUpdated(record models.WeatherRecord) {
	l.logger.Info("Weather updated",
		zap.String("city", record.CityName()),
		zap.String("temperature", record.TemperatureString()),
		zap.String("condition", string(record.ConditionCategory())))
}

func (l *LogListener) OnFetchFailed(err error) {
	l.logger.Warn("Weather fetch failed",
		zap.String("kind", client.KindOf(err).String()),
		zap.Error(err))
}
