package main

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpapi "github.com/i474232898/just-the-temperature/internal/api/http"
	"github.com/i474232898/just-the-temperature/internal/config"
	"github.com/i474232898/just-the-temperature/internal/logging"
	"github.com/i474232898/just-the-temperature/internal/metrics"
	"github.com/i474232898/just-the-temperature/internal/scheduler"
	"github.com/i474232898/just-the-temperature/internal/skill"
	"github.com/i474232898/just-the-temperature/internal/store"
	"github.com/i474232898/just-the-temperature/internal/weather"
	"github.com/i474232898/just-the-temperature/internal/weather/providers"
)

func provideLogger(cfg *config.AppConfig) zerolog.Logger {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format)
}

// Shared HTTP client for outbound weather and platform calls.
func provideHTTPClient(cfg *config.AppConfig) *http.Client {
	return &http.Client{Timeout: cfg.Weather.HTTPTimeout}
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideWeatherProvider(cfg *config.AppConfig, client *http.Client, m *metrics.Metrics, logger zerolog.Logger) weather.Provider {
	if cfg.Weather.APIKey == "" {
		logger.Warn().Msg("OPENWEATHER_API_KEY is not set; every temperature lookup will fail")
	}
	return metrics.InstrumentProvider(providers.NewOpenWeatherProvider(client, cfg.Weather.APIKey, cfg.Weather.BaseURL), m)
}

func provideSkillConfig(cfg *config.AppConfig) skill.Config {
	return skill.Config{
		ApplicationID: cfg.Skill.ApplicationID,
		RequestMaxAge: cfg.Skill.RequestMaxAge,
	}
}

func provideProbeStore(cfg *config.AppConfig) *store.MemoryStore {
	return store.NewMemoryStore(cfg.Probe.MaxHistory, cfg.Probe.MaxAge)
}

func provideScheduler(cfg *config.AppConfig, provider weather.Provider, results *store.MemoryStore, m *metrics.Metrics, logger zerolog.Logger) *scheduler.Scheduler {
	return scheduler.New(cfg.Probe.Location(), cfg.Probe.Interval, provider, results, m, logger)
}

func provideFiberApp(cfg *config.AppConfig, dispatcher *skill.Dispatcher, history *store.MemoryStore, reg *prometheus.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "just-the-temperature",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpapi.RegisterRoutes(app, dispatcher, history, cfg.Server.RequestTimeout)
	return app
}
