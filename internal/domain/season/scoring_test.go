package season

import (
	"math"
	"testing"
)

func TestRawSeasonScoreZeroAppearances(t *testing.T) {
	t.Parallel()

	s := NewPlayerStats()
	s.Goals = 5
	s.MOTMSeason = 2
	if got := DefaultWeights().RawSeasonScore(s); got != 0 {
		t.Fatalf("score with zero appearances must be 0, got %f", got)
	}
}

func TestRawSeasonScoreWeighting(t *testing.T) {
	t.Parallel()

	s := NewPlayerStats()
	s.CapsSeason = 4
	s.Wins = 2
	s.Draws = 1
	s.Losses = 1
	s.Goals = 3
	s.Conceded = 6
	s.OwnGoals = 1

	w := DefaultWeights()
	// ppg = (2 + 0.5) / 4 = 0.625
	want := 25*0.625 + 2.0*3 + (-0.35)*6 + (-2.5)*1
	if got := w.RawSeasonScore(s); math.Abs(got-want) > 1e-9 {
		t.Fatalf("RawSeasonScore = %f, want %f", got, want)
	}
}

func TestRecentPenalty(t *testing.T) {
	t.Parallel()

	p := DefaultRatingPolicy()

	cases := []struct {
		name          string
		caps, last10  int
		matchesSeason int
		want          float64
	}{
		{"no season matches", 0, 0, 0, 0},
		{"immune by attendance", 5, 0, 20, 0},
		{"active in window", 1, 3, 20, 0},
		{"full penalty", 1, 0, 20, 12},
		{"half penalty", 1, 1, 20, 6},
		{"boundary two played", 1, 2, 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.RecentPenalty(tc.caps, tc.last10, tc.matchesSeason)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("RecentPenalty = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestNormalizeTo100(t *testing.T) {
	t.Parallel()

	got := NormalizeTo100(map[string]float64{"a": 10, "b": 20, "c": 15})
	if got["a"] != 0 || got["b"] != 100 || got["c"] != 50 {
		t.Fatalf("unexpected normalization: %v", got)
	}
}

func TestNormalizeTo100Degenerate(t *testing.T) {
	t.Parallel()

	got := NormalizeTo100(map[string]float64{"a": 7, "b": 7, "c": 7})
	for id, v := range got {
		if v != 50 {
			t.Fatalf("tied cohort must map %s to 50, got %d", id, v)
		}
	}
	if len(NormalizeTo100(nil)) != 0 {
		t.Fatalf("empty cohort must yield empty map")
	}
}
