package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitSystem is the provider-facing unit system ("imperial" or "metric").
type UnitSystem string

const (
	Imperial UnitSystem = "imperial"
	Metric   UnitSystem = "metric"
)

// UnitPreference is the temperature unit a device owner picked in the
// platform settings.
type UnitPreference int

const (
	UnitsUnspecified UnitPreference = iota
	UnitsCelsius
	UnitsFahrenheit
)

// ParseUnitPreference maps the platform's System.temperatureUnit value.
// Anything other than CELSIUS or FAHRENHEIT is unspecified.
func ParseUnitPreference(s string) UnitPreference {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FAHRENHEIT":
		return UnitsFahrenheit
	case "CELSIUS":
		return UnitsCelsius
	default:
		return UnitsUnspecified
	}
}

func (u UnitPreference) String() string {
	switch u {
	case UnitsFahrenheit:
		return "FAHRENHEIT"
	case UnitsCelsius:
		return "CELSIUS"
	default:
		return "UNSPECIFIED"
	}
}

// System returns the unit system requested from the provider.
func (u UnitPreference) System() UnitSystem {
	if u == UnitsFahrenheit {
		return Imperial
	}
	return Metric
}

// Coordinate is a signed latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PostalAddress is a postal code qualified by an ISO country code.
type PostalAddress struct {
	PostalCode  string `json:"postalCode"`
	CountryCode string `json:"countryCode"`
}

// Location identifies where to look up the weather.
// Exactly one of Coordinate or Postal must be set.
type Location struct {
	Coordinate *Coordinate    `json:"coordinate,omitempty"`
	Postal     *PostalAddress `json:"postal,omitempty"`
}

// CoordinateLocation builds a Location from a coordinate pair.
func CoordinateLocation(lat, lon float64) Location {
	return Location{Coordinate: &Coordinate{Latitude: lat, Longitude: lon}}
}

// PostalLocation builds a Location from a postal code and country code.
func PostalLocation(postalCode, countryCode string) Location {
	return Location{Postal: &PostalAddress{PostalCode: postalCode, CountryCode: countryCode}}
}

// Validate reports ErrInvalidLocation unless exactly one representation is usable.
func (l Location) Validate() error {
	switch {
	case l.Coordinate != nil && l.Postal != nil:
		return fmt.Errorf("%w: both coordinate and postal code set", ErrInvalidLocation)
	case l.Coordinate != nil:
		return nil
	case l.Postal != nil:
		if strings.TrimSpace(l.Postal.PostalCode) == "" || strings.TrimSpace(l.Postal.CountryCode) == "" {
			return fmt.Errorf("%w: postal code and country code are required", ErrInvalidLocation)
		}
		return nil
	default:
		return fmt.Errorf("%w: no coordinate or postal code", ErrInvalidLocation)
	}
}

// Key returns a short printable form used in logs and probe history.
func (l Location) Key() string {
	switch {
	case l.Coordinate != nil:
		return strconv.FormatFloat(l.Coordinate.Latitude, 'f', -1, 64) + "," +
			strconv.FormatFloat(l.Coordinate.Longitude, 'f', -1, 64)
	case l.Postal != nil:
		return l.Postal.PostalCode + ":" + l.Postal.CountryCode
	default:
		return "unknown"
	}
}

// TemperatureResult is the normalized current temperature.
type TemperatureResult struct {
	Temperature int        `json:"temperature"`
	Units       UnitSystem `json:"units"`
}
