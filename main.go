// Command wheelword serves the Wheels House daily word game over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/santiago-ondris/wheels-house-sub002/internal/config"
	"github.com/santiago-ondris/wheels-house-sub002/internal/di"
	"github.com/santiago-ondris/wheels-house-sub002/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := di.InitServer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}
	defer cleanup()

	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Start() }()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server exited")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	log.Info().Msg("gracefully stopped")
}
