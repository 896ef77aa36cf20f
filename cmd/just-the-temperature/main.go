package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire application")
	}

	if err := app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}
}
