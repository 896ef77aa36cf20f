package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/just-the-temperature/internal/weather"
)

// DefaultOpenWeatherURL is the current-weather endpoint.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultOpenWeatherURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client},
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchTemperature queries by coordinate when one is present, by zip otherwise.
func (p *OpenWeatherProvider) FetchTemperature(ctx context.Context, loc weather.Location, units weather.UnitPreference) (weather.TemperatureResult, error) {
	if err := loc.Validate(); err != nil {
		return weather.TemperatureResult{}, err
	}
	if p.apiKey == "" {
		return weather.TemperatureResult{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrUnavailable)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		if loc.Coordinate != nil {
			values.Set("lat", strconv.FormatFloat(loc.Coordinate.Latitude, 'f', -1, 64))
			values.Set("lon", strconv.FormatFloat(loc.Coordinate.Longitude, 'f', -1, 64))
		} else {
			values.Set("zip", fmt.Sprintf("%s,%s", loc.Postal.PostalCode, loc.Postal.CountryCode))
		}
		values.Set("APPID", p.apiKey)
		values.Set("units", string(units.System()))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.TemperatureResult{}, fmt.Errorf("%w: %v", weather.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Sys struct {
			Country string `json:"country"`
		} `json:"sys"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.TemperatureResult{}, fmt.Errorf("%w: decode response: %v", weather.ErrUnavailable, err)
	}
	if payload.Main.Temp == nil {
		return weather.TemperatureResult{}, fmt.Errorf("%w: response has no main.temp", weather.ErrUnavailable)
	}

	return weather.Normalize(*payload.Main.Temp, payload.Sys.Country, units), nil
}
