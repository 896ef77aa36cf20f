package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/i474232898/just-the-temperature/internal/weather"
)

type instrumentedProvider struct {
	next    weather.Provider
	metrics *Metrics
}

// InstrumentProvider wraps p so every lookup is counted and timed.
func InstrumentProvider(p weather.Provider, m *Metrics) weather.Provider {
	if m == nil {
		return p
	}
	return &instrumentedProvider{next: p, metrics: m}
}

func (p *instrumentedProvider) Name() string {
	return p.next.Name()
}

func (p *instrumentedProvider) FetchTemperature(ctx context.Context, loc weather.Location, units weather.UnitPreference) (weather.TemperatureResult, error) {
	start := time.Now()
	result, err := p.next.FetchTemperature(ctx, loc, units)
	p.metrics.ObserveHistogram(WeatherAPIDuration, time.Since(start).Seconds(), p.next.Name())
	p.metrics.IncrementCounter(WeatherRequestsTotal, p.next.Name(), requestStatus(err))
	return result, err
}

func requestStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, weather.ErrInvalidLocation):
		return "invalid_location"
	default:
		return "error"
	}
}
