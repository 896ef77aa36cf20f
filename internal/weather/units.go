package weather

import (
	"math"
	"strings"
)

// Countries where Fahrenheit is the everyday unit.
var fahrenheitCountries = map[string]struct{}{
	"US": {},
	"KY": {},
	"LR": {},
}

// CelsiusToFahrenheit converts a Celsius reading.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// UsesFahrenheit reports whether the ISO country code conventionally uses Fahrenheit.
func UsesFahrenheit(country string) bool {
	_, ok := fahrenheitCountries[strings.ToUpper(strings.TrimSpace(country))]
	return ok
}

// Normalize turns a raw provider reading into a TemperatureResult.
//
// temp is in the unit system requested for pref. When the device owner never
// chose a unit the provider answers in metric, so readings from Fahrenheit
// countries are converted and reported as imperial. The value is rounded half
// away from zero.
func Normalize(temp float64, country string, pref UnitPreference) TemperatureResult {
	units := pref.System()
	if pref == UnitsUnspecified && UsesFahrenheit(country) {
		temp = CelsiusToFahrenheit(temp)
		units = Imperial
	}
	return TemperatureResult{
		Temperature: int(math.Round(temp)),
		Units:       units,
	}
}
