package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/ai"
	"fintrack/internal/backend"
	"fintrack/internal/bot"
	"fintrack/internal/chat"
	"fintrack/internal/config"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.TelegramToken == "" {
		logger.Error("TELEGRAM_TOKEN is required for the bot")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	aiClient := ai.NewClient(cfg.AIEndpointURL, cfg.AIModel, cfg.AITemperature, cfg.AITopP, cfg.AITimeout)
	router := chat.NewRouter(store, aiClient, cfg.AIAlwaysDelegate)

	b, err := bot.New(cfg.TelegramToken, router)
	if err != nil {
		logger.Error("Failed to initialize Telegram bot", "error", err)
		os.Exit(1)
	}

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot error", "error", err)
		os.Exit(1)
	}
	logger.Info("Bot stopped gracefully")
}
