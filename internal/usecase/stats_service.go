package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/borderville/season-stats/internal/domain/player"
	"github.com/borderville/season-stats/internal/domain/season"
	"github.com/borderville/season-stats/internal/platform/cache"
	"github.com/borderville/season-stats/internal/platform/logging"
)

const snapshotCacheKey = "season:snapshot"

// StatsService fronts the aggregation pass for the read API: the latest
// snapshot is cached with a TTL and rebuilt at most once at a time.
type StatsService struct {
	aggregator *AggregationService
	store      *cache.Store
	logger     *logging.Logger
}

func NewStatsService(aggregator *AggregationService, store *cache.Store, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{aggregator: aggregator, store: store, logger: logger}
}

// Snapshot returns the cached season snapshot, computing it on miss.
func (s *StatsService) Snapshot(ctx context.Context) (*season.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.Snapshot")
	defer span.End()

	value, err := s.store.GetOrLoad(ctx, snapshotCacheKey, func(ctx context.Context) (any, error) {
		snap, runErr := s.aggregator.Run(ctx)
		if runErr != nil {
			return nil, runErr
		}
		return snap, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	snap, ok := value.(*season.Snapshot)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected snapshot cache entry", ErrDependencyUnavailable)
	}
	return snap, nil
}

// Refresh recomputes the snapshot immediately and replaces the cache.
func (s *StatsService) Refresh(ctx context.Context) (*season.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.Refresh")
	defer span.End()

	snap, err := s.aggregator.Run(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, snapshotCacheKey, snap)
	s.logger.InfoContext(ctx, "snapshot refreshed", "players", len(snap.Players))
	return snap, nil
}

// PlayerFilter narrows the player listing.
type PlayerFilter struct {
	Position player.Position
	MinCaps  int
}

// Players returns player entries from the latest snapshot, excluded
// players filtered out, sorted by overall rating descending with the
// combined score and name as tie-breaks.
func (s *StatsService) Players(ctx context.Context, filter PlayerFilter) ([]*season.PlayerEntry, error) {
	if filter.Position != "" && !filter.Position.Valid() {
		return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, filter.Position)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*season.PlayerEntry, 0, len(snap.Players))
	for _, entry := range snap.Players {
		if entry.Meta.Excluded {
			continue
		}
		if filter.Position != "" && entry.Meta.Position != filter.Position {
			continue
		}
		if entry.Stats.CapsSeason < filter.MinCaps {
			continue
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Stats.Overall != b.Stats.Overall {
			return a.Stats.Overall > b.Stats.Overall
		}
		if a.Stats.RatingCombined != b.Stats.RatingCombined {
			return a.Stats.RatingCombined > b.Stats.RatingCombined
		}
		return a.Name < b.Name
	})
	return out, nil
}
