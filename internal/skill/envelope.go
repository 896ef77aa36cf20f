package skill

import "time"

// GeolocationScope is the permission key whose status tells whether live
// device location may be read.
const GeolocationScope = "alexa::devices:all:geolocation:read"

// ScopeGranted is the status value of a granted permission scope.
const ScopeGranted = "GRANTED"

// Request types and intent names the skill routes on.
const (
	TypeLaunch       = "LaunchRequest"
	TypeIntent       = "IntentRequest"
	TypeSessionEnded = "SessionEndedRequest"

	IntentTemperature = "TemperatureIntent"
	IntentHelp        = "AMAZON.HelpIntent"
	IntentStop        = "AMAZON.StopIntent"
	IntentCancel      = "AMAZON.CancelIntent"
)

// RequestEnvelope is the inbound platform event. Only the fields the skill
// reads are modeled.
type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Context Context  `json:"context"`
	Request Request  `json:"request"`
}

type Session struct {
	New         bool        `json:"new"`
	SessionID   string      `json:"sessionId"`
	Application Application `json:"application"`
	User        User        `json:"user"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type Context struct {
	System      System       `json:"System"`
	Geolocation *Geolocation `json:"Geolocation,omitempty"`
}

type System struct {
	Application    Application `json:"application"`
	User           User        `json:"user"`
	Device         Device      `json:"device"`
	APIEndpoint    string      `json:"apiEndpoint"`
	APIAccessToken string      `json:"apiAccessToken"`
}

type Device struct {
	DeviceID string `json:"deviceId"`
}

type User struct {
	UserID      string       `json:"userId"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

type Permissions struct {
	ConsentToken string                 `json:"consentToken,omitempty"`
	Scopes       map[string]ScopeStatus `json:"scopes,omitempty"`
}

type ScopeStatus struct {
	Status string `json:"status"`
}

type Geolocation struct {
	Timestamp  string         `json:"timestamp,omitempty"`
	Coordinate *GeoCoordinate `json:"coordinate,omitempty"`
}

type GeoCoordinate struct {
	LatitudeInDegrees  float64 `json:"latitudeInDegrees"`
	LongitudeInDegrees float64 `json:"longitudeInDegrees"`
	AccuracyInMeters   float64 `json:"accuracyInMeters,omitempty"`
}

type Request struct {
	Type      string    `json:"type" validate:"required"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	Locale    string    `json:"locale,omitempty"`
	Intent    *Intent   `json:"intent,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

type Intent struct {
	Name string `json:"name"`
}

// ApplicationID prefers the session's application id and falls back to the
// one in context.System.
func (e RequestEnvelope) ApplicationID() string {
	if e.Session != nil && e.Session.Application.ApplicationID != "" {
		return e.Session.Application.ApplicationID
	}
	return e.Context.System.Application.ApplicationID
}

func (e RequestEnvelope) IntentName() string {
	if e.Request.Intent == nil {
		return ""
	}
	return e.Request.Intent.Name
}

func (e RequestEnvelope) DeviceID() string {
	return e.Context.System.Device.DeviceID
}

// GeolocationGranted reports whether the live-location scope is GRANTED.
func (e RequestEnvelope) GeolocationGranted() bool {
	perms := e.Context.System.User.Permissions
	if perms == nil {
		return false
	}
	scope, ok := perms.Scopes[GeolocationScope]
	return ok && scope.Status == ScopeGranted
}

// AddressConsent reports whether the event carries an address consent token.
func (e RequestEnvelope) AddressConsent() bool {
	perms := e.Context.System.User.Permissions
	return perms != nil && perms.ConsentToken != ""
}
