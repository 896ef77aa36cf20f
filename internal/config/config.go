package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/just-the-temperature/internal/weather"
	"github.com/i474232898/just-the-temperature/internal/weather/providers"
)

// DefaultApplicationID is the published skill's id.
const DefaultApplicationID = "amzn1.ask.skill.70de330a-7fb5-4939-a9b6-06cdf2e0690f"

type AppConfig struct {
	Weather WeatherConfig `mapstructure:"weather"`
	Skill   SkillConfig   `mapstructure:"skill"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Probe   ProbeConfig   `mapstructure:"probe"`
}

type WeatherConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// HTTPTimeout of 0 leaves outbound calls bounded only by the request deadline.
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"gte=0"`
}

type SkillConfig struct {
	ApplicationID string        `mapstructure:"application_id" validate:"required"`
	RequestMaxAge time.Duration `mapstructure:"request_max_age" validate:"gte=0"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port" validate:"required"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// ProbeConfig drives the scheduled provider health check.
type ProbeConfig struct {
	Interval    time.Duration `mapstructure:"interval" validate:"gte=0"`
	PostalCode  string        `mapstructure:"postal_code" validate:"required_with=CountryCode"`
	CountryCode string        `mapstructure:"country_code" validate:"required_with=PostalCode"`
	MaxHistory  int           `mapstructure:"max_history" validate:"gte=0"`
	MaxAge      time.Duration `mapstructure:"max_age" validate:"gte=0"`
}

// Location returns the canary location, or nil when none is configured.
func (p ProbeConfig) Location() *weather.Location {
	if p.PostalCode == "" || p.CountryCode == "" {
		return nil
	}
	loc := weather.PostalLocation(p.PostalCode, p.CountryCode)
	return &loc
}

// Load reads .env, the optional just-the-temperature.yaml and the
// environment, in increasing order of precedence over the defaults.
func Load() (*AppConfig, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigName("just-the-temperature")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config")
	v.AddConfigPath("/etc/just-the-temperature")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string][]string{
		"weather.api_key":        {"OPENWEATHER_API_KEY", "weather_key"},
		"weather.base_url":       {"OPENWEATHER_BASE_URL"},
		"weather.http_timeout":   {"WEATHER_HTTP_TIMEOUT"},
		"skill.application_id":   {"SKILL_APPLICATION_ID"},
		"skill.request_max_age":  {"SKILL_REQUEST_MAX_AGE"},
		"server.port":            {"PORT"},
		"server.request_timeout": {"REQUEST_TIMEOUT"},
		"logging.level":          {"LOG_LEVEL"},
		"logging.format":         {"LOG_FORMAT"},
		"probe.interval":         {"PROBE_INTERVAL"},
		"probe.postal_code":      {"PROBE_POSTAL_CODE"},
		"probe.country_code":     {"PROBE_COUNTRY_CODE"},
		"probe.max_history":      {"PROBE_MAX_HISTORY"},
		"probe.max_age":          {"PROBE_MAX_AGE"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.Skill.ApplicationID = strings.TrimSpace(cfg.Skill.ApplicationID)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("weather.base_url", providers.DefaultOpenWeatherURL)
	v.SetDefault("weather.http_timeout", time.Duration(0))

	v.SetDefault("skill.application_id", DefaultApplicationID)
	v.SetDefault("skill.request_max_age", 150*time.Second)

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", 8*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("probe.interval", 15*time.Minute)
	v.SetDefault("probe.max_history", 96) // 24h at 15-minute intervals
	v.SetDefault("probe.max_age", 24*time.Hour)
}
