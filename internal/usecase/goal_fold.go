package usecase

import "github.com/borderville/season-stats/internal/domain/goal"

// foldGoal applies one goal event to scorer/assister totals and the
// scorer+assister partnership table. Callers restrict events to in-year,
// stats-counting matches before folding.
func (st *runState) foldGoal(e goal.Event) {
	if !e.Resolvable() {
		return
	}

	scorer := st.statsFor(e.ScorerID)
	if e.IsOwnGoal {
		scorer.OwnGoals++
	} else {
		scorer.Goals++
	}

	if e.AssistID == "" {
		return
	}
	st.statsFor(e.AssistID).Assists++

	key := scorerAssister{ScorerID: e.ScorerID, AssistID: e.AssistID}
	t, ok := st.goalPairs[key]
	if !ok {
		t = &goalTally{}
		st.goalPairs[key] = t
		st.goalPairOrder = append(st.goalPairOrder, key)
	}
	t.count++
	if !e.IsOwnGoal {
		t.countExclOG++
	}
}
