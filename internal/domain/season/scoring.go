package season

import "math"

// ScoringWeights is the policy table for the raw season score: one
// position-neutral linear combination over the folded counters. Negative
// weights are expressed as negative values here so the score is a plain
// weighted sum.
type ScoringWeights struct {
	PointsPerGame     float64
	MOTM              float64
	MOTMCaptainBonus  float64
	WinningCaptain    float64
	Goal              float64
	Assist            float64
	CleanSheet        float64
	ConcededOne       float64
	HonourableMention float64
	Conceded          float64
	OwnGoal           float64
	OTF               float64
}

// DefaultWeights returns the production weight table.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		PointsPerGame:     25,
		MOTM:              8,
		MOTMCaptainBonus:  3,
		WinningCaptain:    4.0,
		Goal:              2.0,
		Assist:            2.0,
		CleanSheet:        7.0,
		ConcededOne:       1.0,
		HonourableMention: 1.5,
		Conceded:          -0.35,
		OwnGoal:           -2.5,
		OTF:               -0.15,
	}
}

// RatingPolicy controls the recent-inactivity penalty.
type RatingPolicy struct {
	// AttendanceImmunity is the season attendance rate at or above which
	// no penalty ever applies.
	AttendanceImmunity float64
	// PenaltyMax is the penalty at zero appearances in the form window.
	PenaltyMax float64
}

// DefaultRatingPolicy returns the production penalty policy.
func DefaultRatingPolicy() RatingPolicy {
	return RatingPolicy{AttendanceImmunity: 0.20, PenaltyMax: 12}
}

// RawSeasonScore computes the stage-one raw score from season counters.
// Zero in-year appearances yield exactly zero.
func (w ScoringWeights) RawSeasonScore(s *PlayerStats) float64 {
	if s.CapsSeason == 0 {
		return 0
	}
	ppg := (float64(s.Wins) + 0.5*float64(s.Draws)) / float64(s.CapsSeason)

	score := w.PointsPerGame * ppg
	score += w.MOTM * float64(s.MOTMSeason)
	score += w.MOTMCaptainBonus * float64(s.MOTMCaptain)
	score += w.WinningCaptain * float64(s.WinningCaptain)
	score += w.Goal * float64(s.Goals)
	score += w.Assist * float64(s.Assists)
	score += w.CleanSheet * float64(s.CleanSheets)
	score += w.ConcededOne * float64(s.ConcededOne)
	score += w.HonourableMention * float64(s.HonourableMentions)
	score += w.Conceded * float64(s.Conceded)
	score += w.OwnGoal * float64(s.OwnGoals)
	score += w.OTF * float64(s.OTFs)
	return score
}

// RecentPenalty computes the stage-two inactivity penalty. Players at or
// above the immunity threshold, or in a season with no stats-counting
// matches, incur zero.
func (p RatingPolicy) RecentPenalty(capsSeason, playedLast10, matchesSeason int) float64 {
	if matchesSeason == 0 {
		return 0
	}
	attendance := float64(capsSeason) / float64(matchesSeason)
	if attendance >= p.AttendanceImmunity {
		return 0
	}
	if playedLast10 > 2 {
		return 0
	}
	frac := (2 - float64(playedLast10)) / 2
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return frac * p.PenaltyMax
}

// NormalizeTo100 min-max normalizes combined scores to integer 0..100.
// A cohort with no spread maps everyone to 50.
func NormalizeTo100(combined map[string]float64) map[string]int {
	out := make(map[string]int, len(combined))
	if len(combined) == 0 {
		return out
	}
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range combined {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		for id := range combined {
			out[id] = 50
		}
		return out
	}
	for id, v := range combined {
		out[id] = int(math.Round(100 * (v - min) / (max - min)))
	}
	return out
}
