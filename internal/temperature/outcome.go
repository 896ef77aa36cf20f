package temperature

import (
	"errors"
	"fmt"

	"github.com/i474232898/just-the-temperature/internal/weather"
)

// Consent scopes the skill asks for when it cannot locate the device.
const (
	ScopeAddress     = "read::alexa:device:all:address:country_and_postal_code"
	ScopeGeolocation = "read::alexa:device:all:geolocation"
)

// RequiredScopes returns the scope set shown on the consent card.
func RequiredScopes() []string {
	return []string{ScopeAddress, ScopeGeolocation}
}

// ErrorKind enumerates the ways a temperature lookup can fail.
type ErrorKind int

const (
	KindInvalidLocation ErrorKind = iota + 1
	KindPermissionRequired
	KindLocationLookup
	KindWeatherUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidLocation:
		return "invalid_location"
	case KindPermissionRequired:
		return "permission_required"
	case KindLocationLookup:
		return "location_lookup"
	case KindWeatherUnavailable:
		return "weather_unavailable"
	default:
		return "unknown"
	}
}

// Error is the typed failure carried by non-success outcomes.
type Error struct {
	Kind   ErrorKind
	Scopes []string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err, if it wraps an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// OutcomeKind is the terminal state of one resolution.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomePermissionRequired
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomePermissionRequired:
		return "permission_required"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// PermissionReason tells the caller which consent prompt to speak.
type PermissionReason int

const (
	ReasonNone PermissionReason = iota
	// ReasonNoConsent: neither geolocation nor address access was granted.
	ReasonNoConsent
	// ReasonLocationServicesOff: geolocation is granted but the device sent no
	// coordinate, and address access is missing.
	ReasonLocationServicesOff
	// ReasonAddressDenied: the address lookup itself was refused.
	ReasonAddressDenied
)

// Messages carried by failure outcomes.
const (
	MessageLocationError = "unknown location error"
	MessageWeatherError  = "unknown weather error"
)

// Outcome is the single result of Resolver.Resolve.
type Outcome struct {
	Kind    OutcomeKind
	Result  weather.TemperatureResult
	Scopes  []string
	Reason  PermissionReason
	Message string
	Err     error
}

func success(r weather.TemperatureResult) Outcome {
	return Outcome{Kind: OutcomeSuccess, Result: r}
}

func permissionRequired(reason PermissionReason, cause error) Outcome {
	scopes := RequiredScopes()
	return Outcome{
		Kind:   OutcomePermissionRequired,
		Scopes: scopes,
		Reason: reason,
		Err:    &Error{Kind: KindPermissionRequired, Scopes: scopes, Err: cause},
	}
}

func failure(kind ErrorKind, message string, cause error) Outcome {
	return Outcome{
		Kind:    OutcomeFailure,
		Message: message,
		Err:     &Error{Kind: kind, Err: cause},
	}
}
