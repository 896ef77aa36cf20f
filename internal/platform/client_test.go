package platform

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/just-the-temperature/internal/weather"
)

const testDevice = "amzn1.ask.device.TEST"

func newSettingsServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Access) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, Access{APIEndpoint: srv.URL, APIAccessToken: "token-123"}
}

func TestCountryAndPostalCode(t *testing.T) {
	var gotPath, gotAuth string
	srv, access := newSettingsServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"countryCode":"US","postalCode":"87108"}`))
	})

	addr, err := NewClient(srv.Client()).CountryAndPostalCode(context.Background(), access, testDevice)
	require.NoError(t, err)
	assert.Equal(t, Address{CountryCode: "US", PostalCode: "87108"}, addr)
	assert.Equal(t, "/v1/devices/"+testDevice+"/settings/address/countryAndPostalCode", gotPath)
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestCountryAndPostalCodeForbidden(t *testing.T) {
	srv, access := newSettingsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := NewClient(srv.Client()).CountryAndPostalCode(context.Background(), access, testDevice)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestCountryAndPostalCodeOtherFailures(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotFound, http.StatusInternalServerError} {
		srv, access := newSettingsServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := NewClient(srv.Client()).CountryAndPostalCode(context.Background(), access, testDevice)
		require.Error(t, err, "status %d", status)
		assert.True(t, errors.Is(err, ErrUnavailable), "status %d: %v", status, err)
	}
}

func TestEmptyEndpointIsUnavailable(t *testing.T) {
	_, err := NewClient(nil).CountryAndPostalCode(context.Background(), Access{}, testDevice)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestTemperatureUnit(t *testing.T) {
	cases := map[string]weather.UnitPreference{
		`"FAHRENHEIT"`: weather.UnitsFahrenheit,
		`"CELSIUS"`:    weather.UnitsCelsius,
		`"KELVIN"`:     weather.UnitsUnspecified,
	}
	for body, want := range cases {
		var gotPath string
		srv, access := newSettingsServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(body))
		})

		got, err := NewClient(srv.Client()).TemperatureUnit(context.Background(), access, testDevice)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, "/v2/devices/"+testDevice+"/settings/System.temperatureUnit", gotPath)
	}
}

func TestTemperatureUnitFailure(t *testing.T) {
	srv, access := newSettingsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	got, err := NewClient(srv.Client()).TemperatureUnit(context.Background(), access, testDevice)
	require.Error(t, err)
	assert.Equal(t, weather.UnitsUnspecified, got)
}

func TestServerErrorKeepsConnectionReusable(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"try later"}`))
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			conns.Add(1)
		}
	}
	srv.Start()
	t.Cleanup(srv.Close)

	client := NewClient(srv.Client())
	access := Access{APIEndpoint: srv.URL, APIAccessToken: "token-123"}
	for i := 0; i < 3; i++ {
		_, err := client.CountryAndPostalCode(context.Background(), access, testDevice)
		require.ErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, int32(1), conns.Load())
}
