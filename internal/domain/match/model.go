package match

import "time"

// Team identifies a side of a fixture, or a draw outcome.
type Team string

const (
	TeamPink Team = "PINK"
	TeamBlue Team = "BLUE"
	Draw     Team = "DRAW"
)

// Match is one fixture after normalization. Reference fields hold player
// record ids; roster and credit lists are deduplicated, single-reference
// fields are empty strings when unset.
type Match struct {
	ID   string
	Name string

	// Date is zero when the source date was missing or unparseable.
	// Dateless matches are excluded from aggregation entirely.
	Date time.Time

	Pink []string
	Blue []string

	PinkGoals int
	BlueGoals int

	// WinningTeam is TeamPink, TeamBlue, Draw, or "" when undecided.
	WinningTeam Team

	CaptainPink string
	CaptainBlue string

	KeeperPink string
	KeeperBlue string

	DefendersPink []string
	DefendersBlue []string

	CleanPink []string
	CleanBlue []string

	MOTM               []string
	HonourableMentions []string
	OTFs               []string

	Notes string

	// CountsForStats defaults to true when the source field is unset.
	// Non-stat matches still count toward in-year caps, nothing else.
	CountsForStats bool
}

// HasDate reports whether the match carries a usable calendar date.
func (m Match) HasDate() bool {
	return !m.Date.IsZero()
}

// InYear reports whether the match falls inside the given season year.
func (m Match) InYear(year int) bool {
	return m.HasDate() && m.Date.Year() == year
}

// OnRoster reports which side the player appears on, if any.
func (m Match) OnRoster(playerID string) (Team, bool) {
	for _, id := range m.Pink {
		if id == playerID {
			return TeamPink, true
		}
	}
	for _, id := range m.Blue {
		if id == playerID {
			return TeamBlue, true
		}
	}
	return "", false
}

// GoalsAgainst returns the goals conceded by the given side.
func (m Match) GoalsAgainst(side Team) int {
	if side == TeamPink {
		return m.BlueGoals
	}
	return m.PinkGoals
}

// IsMOTM reports whether the player is among the match's MOTM winners.
func (m Match) IsMOTM(playerID string) bool {
	for _, id := range m.MOTM {
		if id == playerID {
			return true
		}
	}
	return false
}
