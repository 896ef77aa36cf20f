package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/i474232898/just-the-temperature/internal/config"
	"github.com/i474232898/just-the-temperature/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

// application owns the HTTP server and the probe scheduler lifecycle.
type application struct {
	cfg    *config.AppConfig
	server *fiber.App
	probe  *scheduler.Scheduler
	logger zerolog.Logger
}

func newApplication(cfg *config.AppConfig, server *fiber.App, probe *scheduler.Scheduler, logger zerolog.Logger) *application {
	return &application{
		cfg:    cfg,
		server: server,
		probe:  probe,
		logger: logger.With().Str("component", "bootstrap").Logger(),
	}
}

// Run starts the probe and the HTTP server and blocks until ctx is done or
// the server fails.
func (a *application) Run(ctx context.Context) error {
	if err := a.probe.Start(); err != nil {
		return err
	}
	defer a.probe.Stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("port", a.cfg.Server.Port).Msg("http server starting")
		if err := a.server.Listen(":" + a.cfg.Server.Port); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.ShutdownWithContext(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
