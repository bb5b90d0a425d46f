package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobby-s-dev/skyfall/internal/models"
	"github.com/bobby-s-dev/skyfall/pkg/client"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Fetcher interface {
	FetchWeather(ctx context.Context, city string) (*models.WeatherReport, error)
}

// Scheduler looks up a single city on a cron schedule and logs the result.
// Reports are not kept beyond the most recent one.
type Scheduler struct {
	fetcher  Fetcher
	logger   *zap.Logger
	city     string
	schedule string
	cron     *cron.Cron

	mu         sync.Mutex
	running    bool
	lastRun    time.Time
	lastReport *models.WeatherReport
	lastErr    error
}

func NewScheduler(fetcher Fetcher, city, schedule string, logger *zap.Logger) (*Scheduler, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("scheduler city is required")
	}

	s := &Scheduler{
		fetcher:  fetcher,
		logger:   logger,
		city:     city,
		schedule: schedule,
	}

	cronLogger := cronLogger{logger.Sugar()}
	s.cron = cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := s.cron.AddFunc(schedule, s.RunNow); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.cron.Start()

	s.logger.Info("Scheduler started",
		zap.String("city", s.city),
		zap.String("schedule", s.schedule))
}

// Stop halts the schedule and waits for an in-flight lookup to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunNow performs one lookup synchronously.
func (s *Scheduler) RunNow() {
	startTime := time.Now()

	report, err := s.fetcher.FetchWeather(context.Background(), s.city)

	s.mu.Lock()
	s.lastRun = startTime
	s.lastReport = report
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Scheduled weather lookup failed",
			zap.String("city", s.city),
			zap.String("kind", client.KindOf(err).String()),
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)))
		return
	}

	s.logger.Info("Scheduled weather lookup completed",
		zap.String("city", report.City),
		zap.String("description", report.Description),
		zap.Float64("temperature", report.TemperatureC),
		zap.Float64("feels_like", report.FeelsLikeC),
		zap.Int("humidity", report.Humidity),
		zap.Duration("duration", time.Since(startTime)))
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":     s.running,
		"schedule":    s.schedule,
		"city":        s.city,
		"last_run":    s.lastRun,
		"last_report": s.lastReport,
	}
	if s.lastErr != nil {
		status["last_error"] = s.lastErr.Error()
	}
	return status
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
