package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/just-the-temperature/internal/skill"
	"github.com/i474232898/just-the-temperature/internal/store"
	"github.com/i474232898/just-the-temperature/internal/weather"
)

type stubHandler struct {
	resp skill.ResponseEnvelope
	err  error

	calls       int
	env         skill.RequestEnvelope
	hadDeadline bool
}

func (s *stubHandler) Handle(ctx context.Context, env skill.RequestEnvelope) (skill.ResponseEnvelope, error) {
	s.calls++
	s.env = env
	_, s.hadDeadline = ctx.Deadline()
	return s.resp, s.err
}

func newTestApp(handler SkillHandler, history ProbeHistory) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, handler, history, 2*time.Second)
	return app
}

func postSkill(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/skill", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

const launchBody = `{"version":"1.0","context":{"System":{"application":{"applicationId":"app"},"device":{"deviceId":"dev"}}},"request":{"type":"LaunchRequest","requestId":"r1","timestamp":"2024-03-01T12:00:00Z"}}`

func TestSkillRouteReturnsResponse(t *testing.T) {
	handler := &stubHandler{resp: skill.ResponseEnvelope{
		Version: "1.0",
		Response: skill.Response{
			OutputSpeech:     &skill.OutputSpeech{Type: "PlainText", Text: "It's 60 degrees."},
			ShouldEndSession: true,
		},
	}}
	app := newTestApp(handler, store.NewMemoryStore(10, 0))

	resp, body := postSkill(t, app, launchBody)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, handler.calls)
	assert.True(t, handler.hadDeadline)
	assert.Equal(t, "LaunchRequest", handler.env.Request.Type)
	assert.Equal(t, "dev", handler.env.DeviceID())

	response := body["response"].(map[string]any)
	assert.Equal(t, true, response["shouldEndSession"])
	assert.Equal(t, "It's 60 degrees.", response["outputSpeech"].(map[string]any)["text"])
}

func TestSkillRouteRejectsBadBodies(t *testing.T) {
	tests := map[string]string{
		"malformed json":       `{"request":`,
		"missing request type": `{"version":"1.0","request":{"requestId":"r1"}}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			handler := &stubHandler{}
			resp, decoded := postSkill(t, newTestApp(handler, store.NewMemoryStore(10, 0)), body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, true, decoded["error"])
			assert.Zero(t, handler.calls)
		})
	}
}

func TestSkillRouteErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{skill.ErrInvalidApplication, http.StatusForbidden},
		{fmt.Errorf("%w: drift 10m0s", skill.ErrStaleRequest), http.StatusBadRequest},
		{skill.ErrUnsupportedRequest, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", skill.ErrUnknownIntent, "AMAZON.FallbackIntent"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			handler := &stubHandler{err: tt.err}
			resp, decoded := postSkill(t, newTestApp(handler, store.NewMemoryStore(10, 0)), launchBody)

			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, true, decoded["error"])
			assert.Equal(t, tt.err.Error(), decoded["message"])
		})
	}
}

func TestHealthIncludesLatestProbe(t *testing.T) {
	history := store.NewMemoryStore(10, 0)
	app := newTestApp(&stubHandler{}, history)

	get := func() map[string]any {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	body := get()
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "probe")

	history.Save(store.ProbeResult{Timestamp: time.Now().UTC(), Location: "87108:US", OK: false, Error: "boom"})
	body = get()
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "87108:US", body["probe"].(map[string]any)["location"])
}

func TestProbeHistoryRoute(t *testing.T) {
	history := store.NewMemoryStore(10, 0)
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	history.Save(store.ProbeResult{
		Timestamp:   ts,
		Location:    "87108:US",
		OK:          true,
		Temperature: &weather.TemperatureResult{Temperature: 18, Units: weather.Metric},
	})
	app := newTestApp(&stubHandler{}, history)

	url := fmt.Sprintf("/api/v1/probes?from=%d&to=%s", ts.Add(-time.Hour).Unix(), ts.Add(time.Hour).Format(time.RFC3339))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Probes []store.ProbeResult `json:"probes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Probes, 1)
	assert.Equal(t, 18, body.Probes[0].Temperature.Temperature)
}

func TestProbeHistoryValidation(t *testing.T) {
	app := newTestApp(&stubHandler{}, store.NewMemoryStore(10, 0))

	tests := map[string]struct {
		query string
		code  int
	}{
		"missing params": {"", http.StatusBadRequest},
		"bad time":       {"?from=yesterday&to=now", http.StatusBadRequest},
		"to before from": {"?from=1709294400&to=1709290800", http.StatusBadRequest},
		"empty range":    {"?from=1709290800&to=1709294400", http.StatusNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/probes"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestParseTime(t *testing.T) {
	ts, err := parseTime("2024-03-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2024, ts.Year())

	ts, err = parseTime("1709294400")
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))

	_, err = parseTime("noon")
	assert.Error(t, err)
}
