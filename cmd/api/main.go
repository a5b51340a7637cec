package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/app"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	httpHandlers "github.com/ANIKETSHETTY47/solar-analyst/internal/http"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/rpc"
	"github.com/rs/zerolog/log"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	server := rpc.NewServer(a.Tools, version, logger.With().Str("component", "rpc").Logger())
	fiberApp := httpHandlers.NewApp(a.Tools, server, cfg.API, logger.With().Str("component", "http").Logger())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().Str("addr", cfg.API.Addr).Str("version", version).Msg("api listening")
	if err := fiberApp.Listen(cfg.API.Addr); err != nil {
		logger.Error().Err(err).Msg("server exit")
	}
}
