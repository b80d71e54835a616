package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/borderville/season-stats/internal/domain/player"
	"github.com/borderville/season-stats/internal/domain/record"
	"github.com/borderville/season-stats/internal/platform/cache"
	"github.com/borderville/season-stats/internal/platform/logging"
)

func newStatsFixtureSource() *stubSource {
	return &stubSource{
		players: []record.Record{
			{ID: "P1", Fields: map[string]any{"Name": "Avery", "Position": "DEF"}},
			{ID: "P2", Fields: map[string]any{"Name": "Blake", "Position": "FWD"}},
			{ID: "P3", Fields: map[string]any{"Name": "Casey", "Position": "FWD", "Excluded": true}},
		},
		matches: []record.Record{
			{ID: "M1", Fields: map[string]any{
				"Name": "Week 1",
				"Date Played": "2026-04-01",
				"Pink Team Players": []any{"P1"},
				"Blue Team Players": []any{"P2", "P3"},
				"Pink Goals": float64(3),
				"Blue Goals": float64(1),
				"Winning Team": "PINK",
			}},
		},
	}
}

func TestStatsService_SnapshotCachesAcrossCalls(t *testing.T) {
	t.Parallel()

	src := newStatsFixtureSource()
	svc := NewStatsService(newTestService(src), cache.NewStore(time.Minute), logging.NewNop())

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	// Mutating the source has no effect until the cache entry expires
	// or a refresh replaces it.
	src.players = append(src.players, record.Record{ID: "P4", Fields: map[string]any{"Name": "Drew"}})

	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Len(t, second.Players, 3)

	refreshed, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, refreshed.Players, 4)

	third, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Same(t, refreshed, third)
}

func TestStatsService_PlayersFiltering(t *testing.T) {
	t.Parallel()

	svc := NewStatsService(newTestService(newStatsFixtureSource()), cache.NewStore(time.Minute), logging.NewNop())

	t.Run("excluded players are dropped", func(t *testing.T) {
		entries, err := svc.Players(context.Background(), PlayerFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, entry := range entries {
			require.NotEqual(t, "P3", entry.ID)
		}
	})

	t.Run("position filter", func(t *testing.T) {
		entries, err := svc.Players(context.Background(), PlayerFilter{Position: player.PositionDefender})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "P1", entries[0].ID)
	})

	t.Run("min caps filter", func(t *testing.T) {
		entries, err := svc.Players(context.Background(), PlayerFilter{MinCaps: 2})
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("invalid position", func(t *testing.T) {
		_, err := svc.Players(context.Background(), PlayerFilter{Position: "STRIKER"})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("winner sorts above loser", func(t *testing.T) {
		entries, err := svc.Players(context.Background(), PlayerFilter{})
		require.NoError(t, err)
		require.Equal(t, "P1", entries[0].ID)
		require.Equal(t, "P2", entries[1].ID)
	})
}
