// Package platform calls the voice platform's device settings API on behalf of
// the invoking device.
package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/just-the-temperature/internal/weather"
)

var (
	// ErrForbidden means the platform answered 403: the user has not
	// consented to the requested data.
	ErrForbidden = errors.New("platform: permission denied")

	// ErrUnavailable covers any other failed settings lookup.
	ErrUnavailable = errors.New("platform: settings unavailable")
)

// Access carries the per-request API endpoint and bearer token the platform
// attaches to every event.
type Access struct {
	APIEndpoint    string
	APIAccessToken string
}

// Address is the device's country and postal code setting.
type Address struct {
	CountryCode string `json:"countryCode"`
	PostalCode  string `json:"postalCode"`
}

// Client reads device settings. A single Client is shared by all requests;
// endpoint and token come from each request's Access.
type Client struct {
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "platform",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

// CountryAndPostalCode returns the device's address setting.
func (c *Client) CountryAndPostalCode(ctx context.Context, access Access, deviceID string) (Address, error) {
	path := fmt.Sprintf("/v1/devices/%s/settings/address/countryAndPostalCode", url.PathEscape(deviceID))

	var addr Address
	if err := c.get(ctx, access, path, &addr); err != nil {
		return Address{}, fmt.Errorf("country and postal code: %w", err)
	}
	return addr, nil
}

// TemperatureUnit returns the device owner's preferred temperature unit.
func (c *Client) TemperatureUnit(ctx context.Context, access Access, deviceID string) (weather.UnitPreference, error) {
	path := fmt.Sprintf("/v2/devices/%s/settings/System.temperatureUnit", url.PathEscape(deviceID))

	var unit string
	if err := c.get(ctx, access, path, &unit); err != nil {
		return weather.UnitsUnspecified, fmt.Errorf("temperature unit: %w", err)
	}
	return weather.ParseUnitPreference(unit), nil
}

func (c *Client) get(ctx context.Context, access Access, path string, out any) error {
	endpoint := strings.TrimRight(strings.TrimSpace(access.APIEndpoint), "/")
	if endpoint == "" {
		return fmt.Errorf("%w: api endpoint is empty", ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+access.APIAccessToken)
	req.Header.Set("Accept", "application/json")

	// Only transport errors and 5xx count against the breaker; 403 is a
	// normal answer.
	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if resp.StatusCode >= 500 {
			drainAndClose(resp)
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode != http.StatusOK:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: status=%d body=%s", ErrUnavailable, resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
