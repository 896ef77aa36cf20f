package skill

import (
	"fmt"

	"github.com/i474232898/just-the-temperature/internal/temperature"
	"github.com/i474232898/just-the-temperature/internal/weather"
)

const responseVersion = "1.0"

// Spoken and card text.
const (
	SpeechHelp = "To use Just the Temperature, just start the skill or ask it the current temperature. " +
		"The easiest way to use it is to say, Alexa, just the temperature."
	SpeechPermission       = "Please enable location permissions in the Amazon Alexa app."
	SpeechLocationServices = "Please enable location services on your device or enable address permissions in the Amazon Alexa app."
	SpeechLocationError    = "There was a problem getting your location information. Please try again later."
	SpeechWeatherError     = "There was an error getting weather data. Please try again later."

	CardTitleHelp        = "How to Use Just The Temperature"
	CardTitleTemperature = "Current Temperature"
	CardTitleError       = "Error"
)

const (
	speechTypePlainText = "PlainText"

	cardTypeSimple      = "Simple"
	cardTypePermissions = "AskForPermissionsConsent"
)

type ResponseEnvelope struct {
	Version  string   `json:"version"`
	Response Response `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Card struct {
	Type        string   `json:"type"`
	Title       string   `json:"title,omitempty"`
	Content     string   `json:"content,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

type responseBuilder struct {
	resp Response
}

func newResponse() *responseBuilder {
	return &responseBuilder{resp: Response{ShouldEndSession: true}}
}

func (b *responseBuilder) speak(text string) *responseBuilder {
	b.resp.OutputSpeech = &OutputSpeech{Type: speechTypePlainText, Text: text}
	return b
}

func (b *responseBuilder) simpleCard(title, content string) *responseBuilder {
	b.resp.Card = &Card{Type: cardTypeSimple, Title: title, Content: content}
	return b
}

func (b *responseBuilder) permissionsCard(scopes []string) *responseBuilder {
	b.resp.Card = &Card{Type: cardTypePermissions, Permissions: append([]string(nil), scopes...)}
	return b
}

func (b *responseBuilder) build() ResponseEnvelope {
	return ResponseEnvelope{Version: responseVersion, Response: b.resp}
}

func renderOutcome(out temperature.Outcome) ResponseEnvelope {
	switch out.Kind {
	case temperature.OutcomeSuccess:
		n := out.Result.Temperature
		return newResponse().
			speak(fmt.Sprintf("It's %d degrees.", n)).
			simpleCard(CardTitleTemperature, fmt.Sprintf("%d°%s", n, unitSymbol(out.Result.Units))).
			build()
	case temperature.OutcomePermissionRequired:
		speech := SpeechPermission
		if out.Reason == temperature.ReasonLocationServicesOff {
			speech = SpeechLocationServices
		}
		return newResponse().speak(speech).permissionsCard(out.Scopes).build()
	default:
		speech := SpeechWeatherError
		if out.Message == temperature.MessageLocationError {
			speech = SpeechLocationError
		}
		return newResponse().speak(speech).simpleCard(CardTitleError, speech).build()
	}
}

func unitSymbol(u weather.UnitSystem) string {
	if u == weather.Imperial {
		return "F"
	}
	return "C"
}
