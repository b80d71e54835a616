package usecase

import (
	"sort"
	"time"

	"github.com/borderville/season-stats/internal/domain/goal"
	"github.com/borderville/season-stats/internal/domain/match"
	"github.com/borderville/season-stats/internal/domain/season"
)

// assemble merges the accumulators into the output document. Career
// balances are settled here: starting balances plus season counters,
// subs as a ledger that may go negative.
func (st *runState) assemble(inYear []match.Match, goals []goal.Event, year int, statsCount int, now time.Time) *season.Snapshot {
	snap := &season.Snapshot{
		Players: make(map[string]*season.PlayerEntry, len(st.players)),
		Goals:   goals,
	}

	for id, p := range st.players {
		s, ok := st.stats[id]
		if !ok {
			s = season.NewPlayerStats()
		}
		s.Caps = p.StartingCaps + s.CapsSeason
		s.MOTM = p.StartingMOTM + s.MOTMSeason
		s.Subs = p.StartingSubs + p.SubsAdded - float64(s.CapsSeason)

		snap.Players[id] = &season.PlayerEntry{
			ID:    id,
			Name:  p.Name,
			Stats: s,
			Meta: season.PlayerMeta{
				Position:     p.Position,
				DateOfBirth:  p.DateOfBirth,
				ProfilePhoto: p.ProfilePhoto,
				Excluded:     p.Excluded,
				Nicknames:    p.Nicknames,
			},
		}
	}

	for _, m := range inYear {
		snap.Matches = append(snap.Matches, season.MatchRow{
			ID:                   m.ID,
			Name:                 m.Name,
			Date:                 m.Date.Format("2006-01-02"),
			PlayersPink:          emptyNotNil(m.Pink),
			PlayersBlue:          emptyNotNil(m.Blue),
			PinkGoals:            m.PinkGoals,
			BlueGoals:            m.BlueGoals,
			WinningTeam:          string(m.WinningTeam),
			MOTMIDs:              emptyNotNil(m.MOTM),
			HonourableMentionIDs: emptyNotNil(m.HonourableMentions),
			CaptainPinkID:        m.CaptainPink,
			CaptainBlueID:        m.CaptainBlue,
			OTFIDs:               emptyNotNil(m.OTFs),
			Notes:                m.Notes,
			CountsForStats:       m.CountsForStats,
		})
	}

	snap.Partnerships = st.partnershipRows()
	snap.DefensivePartnerships = st.defensivePairRows()
	snap.DefensivePartnershipsGoalsAgainst = st.defensivePairGARows()
	snap.DefensiveUnitsGoalsAgainst = st.defensiveUnitGARows()

	snap.Meta = season.Meta{
		GeneratedAt:                now.UTC().Format(time.RFC3339),
		Year:                       year,
		MatchesInYear:              len(inYear),
		MatchesCountForStatsInYear: statsCount,
		MatchesNonStatInYear:       len(inYear) - statsCount,
		GoalsIncluded:              len(goals),
	}
	return snap
}

func (st *runState) partnershipRows() []season.PartnershipRow {
	rows := make([]season.PartnershipRow, 0, len(st.goalPairOrder))
	for _, key := range st.goalPairOrder {
		t := st.goalPairs[key]
		rows = append(rows, season.PartnershipRow{
			ScorerID:    key.ScorerID,
			AssistID:    key.AssistID,
			Count:       t.count,
			CountExclOG: t.countExclOG,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

func (st *runState) defensivePairRows() []season.DefensivePairRow {
	rows := make([]season.DefensivePairRow, 0, len(st.csPairOrder))
	for _, p := range st.csPairOrder {
		rows = append(rows, season.DefensivePairRow{
			PlayerID1: p.A,
			PlayerID2: p.B,
			Count:     st.csPairs[p],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

func (st *runState) defensivePairGARows() []season.DefensivePairGARow {
	rows := make([]season.DefensivePairGARow, 0, len(st.gaPairOrder))
	for _, p := range st.gaPairOrder {
		t := st.gaPairs[p]
		rows = append(rows, season.DefensivePairGARow{
			PlayerID1:    p.A,
			PlayerID2:    p.B,
			Matches:      t.matches,
			GoalsAgainst: t.goalsAgainst,
			GAPerMatch:   gaPerMatch(t),
		})
	}
	sortByGAPerMatch(rows, func(r season.DefensivePairGARow) *float64 { return r.GAPerMatch })
	return rows
}

func (st *runState) defensiveUnitGARows() []season.DefensiveUnitGARow {
	rows := make([]season.DefensiveUnitGARow, 0, len(st.gaUnitOrder))
	for _, k := range st.gaUnitOrder {
		t := st.gaUnits[k]
		rows = append(rows, season.DefensiveUnitGARow{
			PlayerIDs:    season.SplitUnitKey(k),
			Matches:      t.matches,
			GoalsAgainst: t.goalsAgainst,
			GAPerMatch:   gaPerMatch(t),
		})
	}
	sortByGAPerMatch(rows, func(r season.DefensiveUnitGARow) *float64 { return r.GAPerMatch })
	return rows
}

func gaPerMatch(t *gaTally) *float64 {
	if t.matches == 0 {
		return nil
	}
	v := float64(t.goalsAgainst) / float64(t.matches)
	return &v
}

// sortByGAPerMatch orders ascending with nil rates last, stable.
func sortByGAPerMatch[T any](rows []T, rate func(T) *float64) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rate(rows[i]), rate(rows[j])
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri < *rj
		}
	})
}

func emptyNotNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
