// Package app wires configuration, the Airtable source, the aggregation
// pipeline and the HTTP surface into runnable processes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/borderville/season-stats/external/airtable"
	"github.com/borderville/season-stats/internal/config"
	"github.com/borderville/season-stats/internal/domain/season"
	"github.com/borderville/season-stats/internal/interfaces/httpapi"
	"github.com/borderville/season-stats/internal/platform/cache"
	"github.com/borderville/season-stats/internal/platform/logging"
	"github.com/borderville/season-stats/internal/platform/resilience"
	"github.com/borderville/season-stats/internal/usecase"
)

// App holds the wired service graph for the API process.
type App struct {
	Server *http.Server
	Stats  *usecase.StatsService

	cfg    config.Config
	logger *logging.Logger
	wg     conc.WaitGroup
}

// NewAggregator builds the aggregation pipeline against the configured
// Airtable base. Both the API process and the one-shot aggregate
// command share this wiring.
func NewAggregator(cfg config.Config, logger *logging.Logger) *usecase.AggregationService {
	if logger == nil {
		logger = logging.Default()
	}

	source := airtable.NewClient(airtable.ClientConfig{
		BaseURL:      cfg.AirtableBaseURL,
		Token:        cfg.AirtableToken,
		BaseID:       cfg.AirtableBaseID,
		PlayersTable: cfg.AirtablePlayersTable,
		MatchesTable: cfg.AirtableMatchesTable,
		GoalsTable:   cfg.AirtableGoalsTable,
		PageSize:     cfg.AirtablePageSize,
		PageDelay:    cfg.AirtablePageDelay,
		Timeout:      cfg.AirtableTimeout,
		MaxRetries:   cfg.AirtableMaxRetries,
		Logger:       logger.With("component", "airtable"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AirtableCircuitEnabled,
			FailureThreshold: cfg.AirtableCircuitFailureCount,
			OpenTimeout:      cfg.AirtableCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AirtableCircuitHalfOpenReq,
		},
	})

	return usecase.NewAggregationService(source, usecase.AggregationConfig{
		Fields:     usecase.DefaultFieldMap(),
		Weights:    season.DefaultWeights(),
		Policy:     season.DefaultRatingPolicy(),
		Year:       cfg.SeasonYear,
		MaxWorkers: cfg.FetchWorkers,
		Logger:     logger,
	})
}

// New wires the API process: aggregation pipeline, snapshot cache,
// stats service and the HTTP router.
func New(cfg config.Config, edgeLogger *slog.Logger) (*App, error) {
	if edgeLogger == nil {
		edgeLogger = slog.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	ttl := cfg.CacheTTL
	if !cfg.CacheEnabled {
		// Negative TTL disables retention; concurrent rebuilds still
		// coalesce through the store's singleflight.
		ttl = -1
	}
	store := cache.NewStore(ttl)

	aggregator := NewAggregator(cfg, logger)
	stats := usecase.NewStatsService(aggregator, store, logger)

	handler := httpapi.NewHandler(stats, edgeLogger)
	router := httpapi.NewRouter(handler, edgeLogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server: server,
		Stats:  stats,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// StartBackgroundRefresh recomputes the snapshot on a fixed interval so
// the cache stays warm between requests. It stops when ctx is cancelled.
func (a *App) StartBackgroundRefresh(ctx context.Context) {
	interval := a.cfg.RefreshInterval
	if interval <= 0 {
		return
	}

	a.wg.Go(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := a.Stats.Refresh(ctx); err != nil {
					a.logger.ErrorContext(ctx, "background refresh failed", "error", err)
				}
			}
		}
	})
}

// Close waits for background work and flushes buffered logs.
func (a *App) Close() {
	a.wg.Wait()
	_ = a.logger.Sync()
}
