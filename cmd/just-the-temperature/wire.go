//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/just-the-temperature/internal/config"
	"github.com/i474232898/just-the-temperature/internal/metrics"
	"github.com/i474232898/just-the-temperature/internal/platform"
	"github.com/i474232898/just-the-temperature/internal/skill"
	"github.com/i474232898/just-the-temperature/internal/temperature"
)

func initializeApp() (*application, error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideHTTPClient,
		provideRegistry,
		metrics.New,
		provideWeatherProvider,
		platform.NewClient,
		temperature.NewResolver,
		provideSkillConfig,
		skill.NewDispatcher,
		provideProbeStore,
		provideScheduler,
		provideFiberApp,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		wire.Bind(new(temperature.DeviceSettings), new(*platform.Client)),
		wire.Bind(new(skill.TemperatureResolver), new(*temperature.Resolver)),
		newApplication,
	)
	return nil, nil
}
