package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"gourmetto/internal/app/server"
	"gourmetto/internal/platform/config"
	"gourmetto/internal/platform/logger"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
		app.Close()
		os.Exit(1)
	}
}
