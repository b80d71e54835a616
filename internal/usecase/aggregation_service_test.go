package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/borderville/season-stats/internal/domain/record"
	"github.com/borderville/season-stats/internal/domain/season"
)

type stubSource struct {
	players []record.Record
	matches []record.Record
	goals   []record.Record
	err     error
}

func (s *stubSource) FetchPlayers(context.Context) ([]record.Record, error) {
	return s.players, s.err
}

func (s *stubSource) FetchMatches(context.Context) ([]record.Record, error) {
	return s.matches, s.err
}

func (s *stubSource) FetchGoals(context.Context) ([]record.Record, error) {
	return s.goals, s.err
}

func newTestService(src RecordSource) *AggregationService {
	return NewAggregationService(src, AggregationConfig{
		Fields:  DefaultFieldMap(),
		Weights: season.DefaultWeights(),
		Policy:  season.DefaultRatingPolicy(),
		Year:    2026,
	})
}

func TestAggregationRunEndToEnd(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		players: []record.Record{
			{ID: "P1", Fields: map[string]any{"Name": "P1"}},
			{ID: "P2", Fields: map[string]any{"Name": "P2"}},
			{ID: "P3", Fields: map[string]any{"Name": "P3"}},
			{ID: "P4", Fields: map[string]any{"Name": "P4"}},
		},
		matches: []record.Record{
			{ID: "M1", Fields: map[string]any{
				"Name": "Week 1",
				"Date Played": "2026-02-01",
				"Pink Team Players": []any{"P1", "P2"},
				"Blue Team Players": []any{"P3", "P4"},
				"Pink Goals": float64(2),
				"Blue Goals": float64(0),
				"Winning Team": "PINK",
				"Pink Defenders": []any{"P1", "P2"},
				"Clean Sheet (Pink)": []any{"P1", "P2"},
			}},
		},
		goals: []record.Record{
			{ID: "G1", Fields: map[string]any{"Match": []any{"M1"}, "Scorer": []any{"P1"}, "Assist": []any{"P2"}}},
			{ID: "G2", Fields: map[string]any{"Match": []any{"M1"}, "Scorer": []any{"P1"}}},
		},
	}

	snap, err := newTestService(src).Run(context.Background())
	require.NoError(t, err)

	p1 := snap.Players["P1"].Stats
	p2 := snap.Players["P2"].Stats
	require.Equal(t, 1, p1.Wins)
	require.Equal(t, 2, p1.Goals)
	require.Equal(t, 1, p1.CleanSheets)
	require.Equal(t, 1, p2.Wins)
	require.Equal(t, 1, p2.CleanSheets)
	require.Equal(t, 1, p2.Assists)
	require.Equal(t, 1, snap.Players["P3"].Stats.Losses)
	require.Equal(t, 1, snap.Players["P4"].Stats.Losses)

	require.Len(t, snap.DefensivePartnerships, 1)
	require.Equal(t, season.DefensivePairRow{PlayerID1: "P1", PlayerID2: "P2", Count: 1}, snap.DefensivePartnerships[0])

	require.Len(t, snap.DefensivePartnershipsGoalsAgainst, 1)
	ga := snap.DefensivePartnershipsGoalsAgainst[0]
	require.Equal(t, 1, ga.Matches)
	require.Equal(t, 0, ga.GoalsAgainst)

	require.Len(t, snap.Partnerships, 1)
	require.Equal(t, season.PartnershipRow{ScorerID: "P1", AssistID: "P2", Count: 1, CountExclOG: 1}, snap.Partnerships[0])

	require.Equal(t, 2026, snap.Meta.Year)
	require.Equal(t, 1, snap.Meta.MatchesInYear)
	require.Equal(t, 1, snap.Meta.MatchesCountForStatsInYear)
	require.Equal(t, 0, snap.Meta.MatchesNonStatInYear)
	require.Equal(t, 2, snap.Meta.GoalsIncluded)

	// Form window: most recent slot encoded, rest padded.
	require.Equal(t, season.FormWin, p1.Form[0])
	require.Equal(t, 1, p1.PlayedLast10)
}

func TestAggregationRunSubsBalanceGoesNegative(t *testing.T) {
	t.Parallel()

	matches := make([]record.Record, 0, 3)
	for _, id := range []string{"M1", "M2", "M3"} {
		matches = append(matches, record.Record{ID: id, Fields: map[string]any{
			"Date Played": "2026-02-01",
			"Pink Team Players": []any{"P1"},
			"Blue Team Players": []any{"P2"},
		}})
	}
	src := &stubSource{
		players: []record.Record{{ID: "P1", Fields: map[string]any{"Name": "P1"}}},
		matches: matches,
	}

	snap, err := newTestService(src).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, float64(-3), snap.Players["P1"].Stats.Subs)
	require.Equal(t, 3, snap.Players["P1"].Stats.CapsSeason)
}

func TestAggregationRunOutOfYearIgnored(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		players: []record.Record{{ID: "P1", Fields: map[string]any{"Name": "P1"}}},
		matches: []record.Record{{ID: "M1", Fields: map[string]any{
			"Date Played": "2025-12-28",
			"Pink Team Players": []any{"P1"},
			"Winning Team": "PINK",
		}}},
	}

	snap, err := newTestService(src).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, snap.Players["P1"].Stats.CapsSeason)
	require.Equal(t, 0, snap.Meta.MatchesInYear)
}

func TestAggregationRunCareerBalances(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		players: []record.Record{{ID: "P1", Fields: map[string]any{
			"Name": "P1",
			"Starting Caps": float64(100),
			"Starting MOTM": float64(5),
			"Starting Subs": float64(4),
			"Subs Added": float64(6),
		}}},
		matches: []record.Record{{ID: "M1", Fields: map[string]any{
			"Date Played": "2026-02-01",
			"Pink Team Players": []any{"P1"},
			"Winning Team": "PINK",
			"Player of the Match": []any{"P1"},
		}}},
	}

	snap, err := newTestService(src).Run(context.Background())
	require.NoError(t, err)

	s := snap.Players["P1"].Stats
	require.Equal(t, 101, s.Caps)
	require.Equal(t, 6, s.MOTM)
	require.Equal(t, 1, s.MOTMSeason)
	require.Equal(t, float64(9), s.Subs) // 4 + 6 - 1
}

func TestAggregationRunFatalOnMOTMLoss(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		players: []record.Record{{ID: "P1", Fields: map[string]any{"Name": "P1"}}},
		matches: []record.Record{{ID: "M1", Fields: map[string]any{
			"Date Played": "2026-02-01",
			"Pink Team Players": []any{"P1"},
			"Blue Team Players": []any{"P2"},
			"Winning Team": "BLUE",
			"Player of the Match": []any{"P1"},
		}}},
	}

	_, err := newTestService(src).Run(context.Background())
	require.ErrorIs(t, err, ErrDataIntegrity)
}

func TestAggregationRunDegenerateCohort(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		players: []record.Record{
			{ID: "P1", Fields: map[string]any{"Name": "P1"}},
			{ID: "P2", Fields: map[string]any{"Name": "P2"}},
		},
	}

	snap, err := newTestService(src).Run(context.Background())
	require.NoError(t, err)
	for id, entry := range snap.Players {
		require.Equalf(t, 50, entry.Stats.Overall, "player %s", id)
	}
}
