package weather

import (
	"context"
	"errors"
)

var (
	// ErrInvalidLocation is returned when a Location carries neither (or both)
	// of its representations. No provider call is made.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrUnavailable covers provider errors, transport failures and bad payloads.
	ErrUnavailable = errors.New("weather unavailable")
)

// Provider abstracts the current-temperature source (OpenWeatherMap).
type Provider interface {
	Name() string
	FetchTemperature(ctx context.Context, loc Location, units UnitPreference) (TemperatureResult, error)
}
