// Command aggregate runs one full aggregation pass and writes the
// season snapshot to the configured output path.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/borderville/season-stats/internal/app"
	"github.com/borderville/season-stats/internal/config"
	"github.com/borderville/season-stats/internal/infrastructure/snapshot"
	"github.com/borderville/season-stats/internal/observability"
	"github.com/borderville/season-stats/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	edgeLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logging.SlogLevel(cfg.LogLevel),
	}))

	shutdownUptrace, err := observability.InitUptrace(cfg, edgeLogger)
	if err != nil {
		edgeLogger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	aggregator := app.NewAggregator(cfg, logger)
	writer := snapshot.NewWriter(cfg.OutputPath, logger)

	started := time.Now()
	snap, err := aggregator.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "aggregation failed", "error", err)
		os.Exit(1)
	}

	if err := writer.Write(ctx, snap); err != nil {
		logger.ErrorContext(ctx, "write snapshot failed", "path", cfg.OutputPath, "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "aggregation complete",
		"path", cfg.OutputPath,
		"year", snap.Meta.Year,
		"players", len(snap.Players),
		"matches_in_year", snap.Meta.MatchesInYear,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownUptrace(shutdownCtx); err != nil {
		edgeLogger.Error("uptrace shutdown failed", "error", err)
	}
}
