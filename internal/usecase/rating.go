package usecase

import "github.com/borderville/season-stats/internal/domain/season"

// applyRatings runs the three rating stages over every accumulator:
// raw weighted season score, recent-inactivity penalty, then cohort
// min-max normalization into the 0..100 overall.
func (st *runState) applyRatings(weights season.ScoringWeights, policy season.RatingPolicy, matchesSeason int) {
	combined := make(map[string]float64, len(st.stats))
	for id, s := range st.stats {
		s.RatingRaw = weights.RawSeasonScore(s)
		s.RatingPenalty = policy.RecentPenalty(s.CapsSeason, s.PlayedLast10, matchesSeason)
		s.RatingCombined = s.RatingRaw - s.RatingPenalty
		combined[id] = s.RatingCombined
	}
	for id, ovr := range season.NormalizeTo100(combined) {
		st.stats[id].Overall = ovr
	}
}
