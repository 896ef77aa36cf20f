package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/just-the-temperature/internal/metrics"
	"github.com/i474232898/just-the-temperature/internal/store"
	"github.com/i474232898/just-the-temperature/internal/weather"
)

const probeTimeout = 30 * time.Second

// ResultSaver records probe results.
type ResultSaver interface {
	Save(result store.ProbeResult)
}

// Scheduler periodically checks the weather provider against a canary
// location. Its results never feed user requests.
type Scheduler struct {
	scheduler *gocron.Scheduler
	provider  weather.Provider
	results   ResultSaver
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	location  *weather.Location
	interval  time.Duration
	now       func() time.Time
}

// New creates a new Scheduler. A nil location disables the probe.
func New(location *weather.Location, interval time.Duration, provider weather.Provider, results ResultSaver, m *metrics.Metrics, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		provider:  provider,
		results:   results,
		metrics:   m,
		logger:    logger.With().Str("component", "probe").Logger(),
		location:  location,
		interval:  interval,
		now:       time.Now,
	}
}

// Start schedules the probe and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.location == nil {
		s.logger.Info().Msg("no probe location configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int("every_minutes", minutes).Str("location", s.location.Key()).Msg("probe scheduled")
	s.scheduler.StartAsync()
	return nil
}

// RunOnce performs a single probe and records its result.
func (s *Scheduler) RunOnce(ctx context.Context) store.ProbeResult {
	if s.location == nil {
		return store.ProbeResult{}
	}

	res := store.ProbeResult{Timestamp: s.now().UTC(), Location: s.location.Key()}

	temp, err := s.provider.FetchTemperature(ctx, *s.location, weather.UnitsCelsius)
	if err != nil {
		res.Error = err.Error()
		s.metrics.IncrementCounter(metrics.ProbeRunsTotal, "error")
		s.logger.Warn().Err(err).Str("location", res.Location).Msg("provider probe failed")
	} else {
		res.OK = true
		res.Temperature = &temp
		s.metrics.IncrementCounter(metrics.ProbeRunsTotal, "ok")
		s.logger.Debug().Int("temperature", temp.Temperature).Str("location", res.Location).Msg("provider probe ok")
	}

	s.results.Save(res)
	return res
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
