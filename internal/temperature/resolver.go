// Package temperature resolves where an invoking device is, which unit its
// owner prefers, and what the current temperature there is.
package temperature

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/i474232898/just-the-temperature/internal/platform"
	"github.com/i474232898/just-the-temperature/internal/weather"
)

// DeviceSettings is the slice of the platform settings API the resolver needs.
type DeviceSettings interface {
	CountryAndPostalCode(ctx context.Context, access platform.Access, deviceID string) (platform.Address, error)
	TemperatureUnit(ctx context.Context, access platform.Access, deviceID string) (weather.UnitPreference, error)
}

// PlatformContext is what the platform told us about the device and its
// permissions on this request.
type PlatformContext struct {
	Access platform.Access

	// GeolocationGranted is true when the geolocation scope status is GRANTED.
	GeolocationGranted bool
	// AddressConsent is true when the event carried a consent token.
	AddressConsent bool
	// Geolocation is the live coordinate, nil when location services are off.
	Geolocation *weather.Coordinate
}

// Resolver runs the temperature flow for one request at a time. It holds no
// per-request state and is safe for concurrent use.
type Resolver struct {
	settings DeviceSettings
	weather  weather.Provider
	logger   zerolog.Logger
}

func NewResolver(settings DeviceSettings, provider weather.Provider, logger zerolog.Logger) *Resolver {
	return &Resolver{
		settings: settings,
		weather:  provider,
		logger:   logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve returns exactly one Outcome. Calls are sequential: address lookup,
// units lookup, then weather.
func (r *Resolver) Resolve(ctx context.Context, deviceID string, pc PlatformContext) Outcome {
	log := r.logger.With().Str("device_id", deviceID).Logger()

	if !pc.GeolocationGranted && !pc.AddressConsent {
		log.Info().Msg("no location permission granted")
		return permissionRequired(ReasonNoConsent, nil)
	}

	if pc.GeolocationGranted && pc.Geolocation == nil && !pc.AddressConsent {
		log.Info().Msg("geolocation granted but no coordinate attached")
		return permissionRequired(ReasonLocationServicesOff, nil)
	}

	var loc weather.Location
	if pc.GeolocationGranted && pc.Geolocation != nil {
		loc = weather.CoordinateLocation(pc.Geolocation.Latitude, pc.Geolocation.Longitude)
	} else {
		addr, err := r.settings.CountryAndPostalCode(ctx, pc.Access, deviceID)
		if err != nil {
			if errors.Is(err, platform.ErrForbidden) {
				log.Info().Err(err).Msg("address lookup refused")
				return permissionRequired(ReasonAddressDenied, err)
			}
			log.Error().Err(err).Msg("address lookup failed")
			return failure(KindLocationLookup, MessageLocationError, err)
		}
		loc = weather.PostalLocation(addr.PostalCode, addr.CountryCode)
	}

	units, err := r.settings.TemperatureUnit(ctx, pc.Access, deviceID)
	if err != nil {
		log.Warn().Err(err).Msg("units lookup failed; using unspecified")
		units = weather.UnitsUnspecified
	}

	result, err := r.weather.FetchTemperature(ctx, loc, units)
	if err != nil {
		if errors.Is(err, weather.ErrInvalidLocation) {
			log.Error().Err(err).Str("location", loc.Key()).Msg("resolved location is unusable")
			return failure(KindInvalidLocation, MessageLocationError, err)
		}
		log.Error().Err(err).Str("location", loc.Key()).Msg("weather lookup failed")
		return failure(KindWeatherUnavailable, MessageWeatherError, err)
	}

	log.Debug().
		Str("location", loc.Key()).
		Str("units", string(result.Units)).
		Int("temperature", result.Temperature).
		Msg("temperature resolved")

	return success(result)
}
