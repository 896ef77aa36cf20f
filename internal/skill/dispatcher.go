// Package skill turns platform events into spoken responses.
package skill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/just-the-temperature/internal/metrics"
	"github.com/i474232898/just-the-temperature/internal/platform"
	"github.com/i474232898/just-the-temperature/internal/temperature"
	"github.com/i474232898/just-the-temperature/internal/weather"
)

const labelOther = "other"

var (
	ErrInvalidApplication = errors.New("application id does not match this skill")
	ErrStaleRequest       = errors.New("request timestamp outside the allowed window")
	ErrUnsupportedRequest = errors.New("unsupported request type")
	ErrUnknownIntent      = errors.New("unknown intent")
)

// TemperatureResolver runs the temperature flow for one device.
type TemperatureResolver interface {
	Resolve(ctx context.Context, deviceID string, pc temperature.PlatformContext) temperature.Outcome
}

type Config struct {
	ApplicationID string
	// RequestMaxAge bounds how far request.timestamp may drift from now.
	// Zero disables the check.
	RequestMaxAge time.Duration
}

type Dispatcher struct {
	cfg      Config
	resolver TemperatureResolver
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

func NewDispatcher(cfg Config, resolver TemperatureResolver, m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		resolver: resolver,
		metrics:  m,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
		now:      time.Now,
	}
}

// Handle verifies and routes one event. A returned error means the
// invocation failed and no response should be spoken.
func (d *Dispatcher) Handle(ctx context.Context, env RequestEnvelope) (ResponseEnvelope, error) {
	start := d.now()
	reqType := env.Request.Type
	intent := env.IntentName()

	log := d.logger.With().
		Str("request_id", env.Request.RequestID).
		Str("type", reqType).
		Str("intent", intent).
		Logger()

	if err := d.verify(env); err != nil {
		log.Warn().Err(err).Str("application_id", env.ApplicationID()).Msg("rejected event")
		d.metrics.IncrementCounter(metrics.SkillErrorsTotal, errorReason(err))
		return ResponseEnvelope{}, err
	}

	typeLabel, intentLabel := metricLabels(reqType, intent)
	d.metrics.IncrementCounter(metrics.SkillRequestsTotal, typeLabel, intentLabel)
	defer func() {
		d.metrics.ObserveHistogram(metrics.SkillHandlerDuration, d.now().Sub(start).Seconds(), typeLabel)
	}()

	if env.Session != nil && env.Session.New {
		log.Info().Str("session_id", env.Session.SessionID).Msg("session started")
	}

	resp, err := d.route(ctx, env, log)
	if err != nil {
		log.Error().Err(err).Msg("event handling failed")
		d.metrics.IncrementCounter(metrics.SkillErrorsTotal, errorReason(err))
		return ResponseEnvelope{}, err
	}
	return resp, nil
}

func (d *Dispatcher) verify(env RequestEnvelope) error {
	if env.ApplicationID() != d.cfg.ApplicationID {
		return ErrInvalidApplication
	}
	if d.cfg.RequestMaxAge <= 0 {
		return nil
	}
	ts := env.Request.Timestamp
	if ts.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrStaleRequest)
	}
	drift := d.now().Sub(ts)
	if drift < 0 {
		drift = -drift
	}
	if drift > d.cfg.RequestMaxAge {
		return fmt.Errorf("%w: drift %s", ErrStaleRequest, drift.Round(time.Second))
	}
	return nil
}

func (d *Dispatcher) route(ctx context.Context, env RequestEnvelope, log zerolog.Logger) (ResponseEnvelope, error) {
	switch env.Request.Type {
	case TypeLaunch:
		return d.temperature(ctx, env, log), nil
	case TypeIntent:
		switch name := env.IntentName(); name {
		case IntentTemperature:
			return d.temperature(ctx, env, log), nil
		case IntentHelp:
			return newResponse().speak(SpeechHelp).simpleCard(CardTitleHelp, SpeechHelp).build(), nil
		case IntentStop, IntentCancel:
			return newResponse().build(), nil
		default:
			return ResponseEnvelope{}, fmt.Errorf("%w: %q", ErrUnknownIntent, name)
		}
	case TypeSessionEnded:
		log.Info().Str("reason", env.Request.Reason).Msg("session ended")
		return newResponse().build(), nil
	default:
		return ResponseEnvelope{}, fmt.Errorf("%w: %q", ErrUnsupportedRequest, env.Request.Type)
	}
}

func (d *Dispatcher) temperature(ctx context.Context, env RequestEnvelope, log zerolog.Logger) ResponseEnvelope {
	out := d.resolver.Resolve(ctx, env.DeviceID(), platformContext(env))
	d.metrics.IncrementCounter(metrics.SkillOutcomesTotal, out.Kind.String())
	if out.Err != nil {
		log.Info().Err(out.Err).Str("outcome", out.Kind.String()).Msg("temperature not resolved")
	}
	return renderOutcome(out)
}

func platformContext(env RequestEnvelope) temperature.PlatformContext {
	pc := temperature.PlatformContext{
		Access: platform.Access{
			APIEndpoint:    env.Context.System.APIEndpoint,
			APIAccessToken: env.Context.System.APIAccessToken,
		},
		GeolocationGranted: env.GeolocationGranted(),
		AddressConsent:     env.AddressConsent(),
	}
	if geo := env.Context.Geolocation; geo != nil && geo.Coordinate != nil {
		pc.Geolocation = &weather.Coordinate{
			Latitude:  geo.Coordinate.LatitudeInDegrees,
			Longitude: geo.Coordinate.LongitudeInDegrees,
		}
	}
	return pc
}

// metricLabels maps request type and intent onto a fixed label set.
func metricLabels(reqType, intent string) (string, string) {
	switch reqType {
	case TypeLaunch, TypeIntent, TypeSessionEnded:
	default:
		reqType = labelOther
	}
	switch intent {
	case "", IntentTemperature, IntentHelp, IntentStop, IntentCancel:
	default:
		intent = labelOther
	}
	return reqType, intent
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidApplication):
		return "invalid_application"
	case errors.Is(err, ErrStaleRequest):
		return "stale_request"
	case errors.Is(err, ErrUnsupportedRequest):
		return "unsupported_request"
	case errors.Is(err, ErrUnknownIntent):
		return "unknown_intent"
	default:
		return "internal"
	}
}
