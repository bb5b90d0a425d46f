package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobby-s-dev/skyfall/internal/models"
	"github.com/bobby-s-dev/skyfall/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubFetcher struct {
	calls  atomic.Int32
	report *models.WeatherReport
	err    error
}

func (f *stubFetcher) FetchWeather(ctx context.Context, city string) (*models.WeatherReport, error) {
	f.calls.Add(1)
	return f.report, f.err
}

func TestNewScheduler_Validation(t *testing.T) {
	_, err := NewScheduler(&stubFetcher{}, "  ", "@every 1m", zap.NewNop())
	assert.Error(t, err)

	_, err = NewScheduler(&stubFetcher{}, "Prague", "every minute", zap.NewNop())
	assert.Error(t, err)
}

func TestRunNow_LogsReport(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	fetcher := &stubFetcher{report: &models.WeatherReport{
		City:         "Prague",
		Description:  "clear sky",
		TemperatureC: 21.5,
		Humidity:     40,
	}}

	s, err := NewScheduler(fetcher, "Prague", "@every 1h", zap.New(core))
	require.NoError(t, err)

	s.RunNow()

	entries := logs.FilterMessage("Scheduled weather lookup completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Prague", fields["city"])
	assert.Equal(t, "clear sky", fields["description"])
	assert.Equal(t, 21.5, fields["temperature"])

	status := s.GetStatus()
	assert.Equal(t, fetcher.report, status["last_report"])
	assert.NotContains(t, status, "last_error")
}

func TestRunNow_LogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	fetcher := &stubFetcher{err: &client.Error{
		Kind:       client.KindAPIRejected,
		Message:    "OpenWeatherMap error 404: city not found",
		StatusCode: 404,
	}}

	s, err := NewScheduler(fetcher, "Atlantis", "@every 1h", zap.New(core))
	require.NoError(t, err)

	s.RunNow()

	entries := logs.FilterMessage("Scheduled weather lookup failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "api_rejected", entries[0].ContextMap()["kind"])
	assert.Equal(t, "OpenWeatherMap error 404: city not found", s.GetStatus()["last_error"])
}

func TestStartStop(t *testing.T) {
	fetcher := &stubFetcher{report: &models.WeatherReport{City: "Prague"}}
	s, err := NewScheduler(fetcher, "Prague", "@every 1s", zap.NewNop())
	require.NoError(t, err)

	s.Start()
	s.Start()
	assert.Equal(t, true, s.GetStatus()["running"])

	require.Eventually(t, func() bool {
		return fetcher.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.Equal(t, false, s.GetStatus()["running"])
}
