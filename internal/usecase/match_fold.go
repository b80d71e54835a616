package usecase

import (
	"github.com/borderville/season-stats/internal/domain/match"
	"github.com/borderville/season-stats/internal/domain/player"
	"github.com/borderville/season-stats/internal/domain/season"
)

// gaTally accumulates goals-against over the matches a pair or unit
// played together.
type gaTally struct {
	matches      int
	goalsAgainst int
}

// scorerAssister keys goal partnerships. Directed: scorer and assister
// roles are distinguished in the output.
type scorerAssister struct {
	ScorerID string
	AssistID string
}

type goalTally struct {
	count       int
	countExclOG int
}

// runState holds every accumulator of one aggregation pass. Pair and unit
// tables track first-seen order so equal-count rows sort reproducibly.
type runState struct {
	players map[string]player.Player
	stats   map[string]*season.PlayerStats

	csPairs     map[season.Pair]int
	csPairOrder []season.Pair

	gaPairs     map[season.Pair]*gaTally
	gaPairOrder []season.Pair

	gaUnits     map[season.UnitKey]*gaTally
	gaUnitOrder []season.UnitKey

	goalPairs     map[scorerAssister]*goalTally
	goalPairOrder []scorerAssister
}

func newRunState() *runState {
	return &runState{
		players:   make(map[string]player.Player),
		stats:     make(map[string]*season.PlayerStats),
		csPairs:   make(map[season.Pair]int),
		gaPairs:   make(map[season.Pair]*gaTally),
		gaUnits:   make(map[season.UnitKey]*gaTally),
		goalPairs: make(map[scorerAssister]*goalTally),
	}
}

// statsFor returns the accumulator for a player id, creating both the
// accumulator and an "Unknown" player entry on first reference.
func (st *runState) statsFor(id string) *season.PlayerStats {
	if s, ok := st.stats[id]; ok {
		return s
	}
	if _, ok := st.players[id]; !ok {
		st.players[id] = player.Unknown(id)
	}
	s := season.NewPlayerStats()
	st.stats[id] = s
	return s
}

// foldMatch applies one in-year match to the accumulators. Callers filter
// by year and date beforehand. Nothing here raises; a match missing
// defenders or captains simply contributes fewer deltas.
func (st *runState) foldMatch(m match.Match) {
	// Caps accrue for every roster member even on non-stat matches.
	for _, id := range m.Pink {
		st.statsFor(id).CapsSeason++
	}
	for _, id := range m.Blue {
		st.statsFor(id).CapsSeason++
	}

	if !m.CountsForStats {
		return
	}

	if m.CaptainPink != "" {
		st.statsFor(m.CaptainPink).Captain++
	}
	if m.CaptainBlue != "" {
		st.statsFor(m.CaptainBlue).Captain++
	}

	switch m.WinningTeam {
	case match.Draw:
		for _, id := range m.Pink {
			st.statsFor(id).Draws++
		}
		for _, id := range m.Blue {
			st.statsFor(id).Draws++
		}
	case match.TeamPink:
		for _, id := range m.Pink {
			st.statsFor(id).Wins++
		}
		for _, id := range m.Blue {
			st.statsFor(id).Losses++
		}
	case match.TeamBlue:
		for _, id := range m.Blue {
			st.statsFor(id).Wins++
		}
		for _, id := range m.Pink {
			st.statsFor(id).Losses++
		}
	}

	for _, id := range m.Pink {
		st.statsFor(id).Conceded += m.BlueGoals
	}
	for _, id := range m.Blue {
		st.statsFor(id).Conceded += m.PinkGoals
	}

	if capt := winningCaptain(m); capt != "" {
		st.statsFor(capt).WinningCaptain++
	}
	if m.CaptainPink != "" && m.IsMOTM(m.CaptainPink) {
		st.statsFor(m.CaptainPink).MOTMCaptain++
	}
	if m.CaptainBlue != "" && m.IsMOTM(m.CaptainBlue) {
		st.statsFor(m.CaptainBlue).MOTMCaptain++
	}

	for _, id := range m.HonourableMentions {
		st.statsFor(id).HonourableMentions++
	}

	st.foldTeamDefence(m.CleanPink, m.KeeperPink, m.DefendersPink, m.GoalsAgainst(match.TeamPink))
	st.foldTeamDefence(m.CleanBlue, m.KeeperBlue, m.DefendersBlue, m.GoalsAgainst(match.TeamBlue))

	for _, id := range m.OTFs {
		st.statsFor(id).OTFs++
	}
	for _, id := range m.MOTM {
		s := st.statsFor(id)
		s.MOTM++
		s.MOTMSeason++
	}
}

// foldTeamDefence applies the clean-sheet, conceded-one, and defensive
// pair/unit rules for one side of a match.
func (st *runState) foldTeamDefence(cleanList []string, keeper string, defenders []string, goalsAgainst int) {
	for _, id := range cleanList {
		st.statsFor(id).CleanSheets++
	}
	// Keeper clean sheets are gated twice: the keeper must be named and
	// must appear in the team's clean-sheet list.
	if keeper != "" && contains(cleanList, keeper) {
		st.statsFor(keeper).KeeperCleanSheets++
	}

	if goalsAgainst == 1 {
		for _, id := range season.Dedup(append(append([]string{}, defenders...), keeper)) {
			st.statsFor(id).ConcededOne++
		}
	}

	// Clean-sheet partnership: only an exact pairing qualifies. Three or
	// more credited defenders record nothing under this metric.
	credited := intersect(defenders, cleanList)
	if len(credited) == 2 {
		p := season.NewPair(credited[0], credited[1])
		if _, ok := st.csPairs[p]; !ok {
			st.csPairOrder = append(st.csPairOrder, p)
		}
		st.csPairs[p]++
	}

	season.Combinations(defenders, func(p season.Pair) {
		t, ok := st.gaPairs[p]
		if !ok {
			t = &gaTally{}
			st.gaPairs[p] = t
			st.gaPairOrder = append(st.gaPairOrder, p)
		}
		t.matches++
		t.goalsAgainst += goalsAgainst
	})

	unit := season.NewUnitKey(append(append([]string{}, defenders...), keeper))
	if unit != "" {
		t, ok := st.gaUnits[unit]
		if !ok {
			t = &gaTally{}
			st.gaUnits[unit] = t
			st.gaUnitOrder = append(st.gaUnitOrder, unit)
		}
		t.matches++
		t.goalsAgainst += goalsAgainst
	}
}

func winningCaptain(m match.Match) string {
	switch m.WinningTeam {
	case match.TeamPink:
		return m.CaptainPink
	case match.TeamBlue:
		return m.CaptainBlue
	default:
		return ""
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	var out []string
	for _, id := range season.Dedup(a) {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
