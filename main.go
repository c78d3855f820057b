package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	api "github.com/BhavyPan/Advance-Web/cmd/api"
	"github.com/BhavyPan/Advance-Web/internal/app"
	"github.com/BhavyPan/Advance-Web/pkg/config"
	"github.com/BhavyPan/Advance-Web/pkg/logger"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", true)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	zerolog.DefaultContextLogger = &log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire use cases, AI backend and the optional report database
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer application.Close()

	log.Info().
		Str("mail_store", cfg.MailStore).
		Str("ai_provider", cfg.AIProvider).
		Int("triage_workers", cfg.TriageWorkers).
		Msg("application initialized")

	handler := api.NewHandler(application)
	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server stopped")
		application.Close()
		os.Exit(1)
	}
}
