package weather

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCelsiusToFahrenheit(t *testing.T) {
	cases := map[float64]float64{
		0:   32,
		100: 212,
		-40: -40,
	}
	for c, f := range cases {
		assert.InDelta(t, f, CelsiusToFahrenheit(c), 1e-9, "C=%v", c)
	}
}

func TestNormalizeCorrectsUnspecifiedUnitsInFahrenheitCountries(t *testing.T) {
	for _, country := range []string{"US", "KY", "LR", "us"} {
		got := Normalize(15.4, country, UnitsUnspecified)
		assert.Equal(t, TemperatureResult{Temperature: 60, Units: Imperial}, got, country)
	}
}

func TestNormalizeLeavesOtherCasesAlone(t *testing.T) {
	// Explicit Celsius preference in the US is respected.
	assert.Equal(t, TemperatureResult{Temperature: 15, Units: Metric}, Normalize(15.4, "US", UnitsCelsius))
	// Fahrenheit was requested, so the value is already imperial.
	assert.Equal(t, TemperatureResult{Temperature: 60, Units: Imperial}, Normalize(59.72, "US", UnitsFahrenheit))
	// Unspecified outside the Fahrenheit countries stays metric.
	assert.Equal(t, TemperatureResult{Temperature: 15, Units: Metric}, Normalize(15.4, "GB", UnitsUnspecified))
	// Missing country never triggers the correction.
	assert.Equal(t, TemperatureResult{Temperature: 22, Units: Metric}, Normalize(22.0, "", UnitsUnspecified))
}

func TestNormalizeRoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 3, Normalize(2.5, "DE", UnitsCelsius).Temperature)
	assert.Equal(t, -3, Normalize(-2.5, "DE", UnitsCelsius).Temperature)
	assert.Equal(t, 2, Normalize(2.49, "DE", UnitsCelsius).Temperature)
	assert.Equal(t, 0, Normalize(-0.4, "DE", UnitsCelsius).Temperature)
}

func TestUnitPreferenceSystem(t *testing.T) {
	assert.Equal(t, Imperial, UnitsFahrenheit.System())
	assert.Equal(t, Metric, UnitsCelsius.System())
	assert.Equal(t, Metric, UnitsUnspecified.System())
}

func TestParseUnitPreference(t *testing.T) {
	assert.Equal(t, UnitsFahrenheit, ParseUnitPreference("FAHRENHEIT"))
	assert.Equal(t, UnitsCelsius, ParseUnitPreference("celsius"))
	assert.Equal(t, UnitsUnspecified, ParseUnitPreference(""))
	assert.Equal(t, UnitsUnspecified, ParseUnitPreference("KELVIN"))
}

func TestLocationValidate(t *testing.T) {
	require.NoError(t, CoordinateLocation(0, 0).Validate())
	require.NoError(t, PostalLocation("87108", "US").Validate())

	invalid := []Location{
		{},
		{Coordinate: &Coordinate{}, Postal: &PostalAddress{PostalCode: "1", CountryCode: "US"}},
		PostalLocation("", "US"),
		PostalLocation("87108", " "),
	}
	for _, loc := range invalid {
		err := loc.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidLocation), "%+v", loc)
	}
}

func TestLocationKey(t *testing.T) {
	assert.Equal(t, "35,-106.6", CoordinateLocation(35.0, -106.6).Key())
	assert.Equal(t, "87108:US", PostalLocation("87108", "US").Key())
	assert.Equal(t, "unknown", Location{}.Key())
}
