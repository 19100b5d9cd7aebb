package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/export"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		userID = flag.String("user", "", "user whose summary to export")
		year   = flag.Int("year", 0, "summary year (defaults to current)")
		month  = flag.Int("month", 0, "summary month 1-12 (defaults to current)")
	)
	flag.Parse()

	if *userID == "" {
		logger.Error("-user is required")
		os.Exit(1)
	}
	if *month != 0 && (*month < 1 || *month > 12) {
		logger.Error("-month must be between 1 and 12", "month", *month)
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for export")
		os.Exit(1)
	}

	window := core.MonthOf(time.Now())
	if *year != 0 {
		window.Year = *year
	}
	if *month != 0 {
		window.Month = time.Month(*month)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	transactions, err := store.ListTransactions(ctx, *userID)
	if err != nil {
		logger.Error("Failed to list transactions", "error", err)
		os.Exit(1)
	}
	budgets, err := store.ListBudgets(ctx, *userID)
	if err != nil {
		logger.Error("Failed to list budgets", "error", err)
		os.Exit(1)
	}

	summary := core.Summarize(*userID, transactions, budgets, window)

	exporter, err := export.NewSheetsExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, cfg.GoogleCredentialsFile)
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", "error", err)
		os.Exit(1)
	}

	if err := exporter.AppendSummary(ctx, summary); err != nil {
		logger.Error("Failed to append summary", "error", err)
		os.Exit(1)
	}

	logger.Info("Summary exported",
		"user", *userID,
		"year", window.Year,
		"month", window.Month.String(),
		"balance", summary.Balance.Format())
}
