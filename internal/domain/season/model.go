// Package season holds the derived season-statistics model: the per-player
// accumulator, partnership keys, the form token table, the rating policy,
// and the snapshot document assembled at the end of a run. Everything here
// is rebuilt from scratch on every aggregation pass.
package season

import (
	"github.com/borderville/season-stats/internal/domain/goal"
	"github.com/borderville/season-stats/internal/domain/player"
)

// PlayerStats is the per-player accumulator for one season run. Career
// fields (Caps, MOTM, Subs) layer starting balances over the season
// counters; Subs is a credit ledger and may go negative.
type PlayerStats struct {
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`

	Goals    int `json:"goals"`
	Assists  int `json:"assists"`
	OwnGoals int `json:"ownGoals"`

	CleanSheets       int `json:"cleanSheets"`
	KeeperCleanSheets int `json:"keeperCleanSheets"`
	Conceded          int `json:"conceded"`
	ConcededOne       int `json:"concededOne"`

	OTFs int `json:"otfs"`

	Captain        int `json:"captain"`
	WinningCaptain int `json:"winningCaptain"`
	MOTMCaptain    int `json:"motmCaptain"`

	HonourableMentions int `json:"honourableMentions"`

	MOTM       int `json:"motm"`
	MOTMSeason int `json:"motmSeason"`

	Caps       int `json:"caps"`
	CapsSeason int `json:"capsSeason"`

	Subs float64 `json:"subs"`

	Form         []FormToken `json:"form"`
	PlayedLast10 int         `json:"playedLast10"`

	RatingRaw      float64 `json:"ratingRaw"`
	RatingPenalty  float64 `json:"ratingPenalty"`
	RatingCombined float64 `json:"ratingCombined"`
	Overall        int     `json:"overall"`
}

// PlayerMeta is the presentation-facing block carried alongside stats.
type PlayerMeta struct {
	Position     player.Position `json:"position,omitempty"`
	DateOfBirth  string          `json:"dob,omitempty"`
	ProfilePhoto string          `json:"profilePhoto,omitempty"`
	Excluded     bool            `json:"excluded"`
	Nicknames    []string        `json:"nicknames,omitempty"`
}

// PlayerEntry is one player in the output document.
type PlayerEntry struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Stats *PlayerStats `json:"stats"`
	Meta  PlayerMeta   `json:"meta"`
}

// MatchRow is the per-match record retained for downstream rendering.
type MatchRow struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Date                 string   `json:"date"`
	PlayersPink          []string `json:"playersPink"`
	PlayersBlue          []string `json:"playersBlue"`
	PinkGoals            int      `json:"pinkGoals"`
	BlueGoals            int      `json:"blueGoals"`
	WinningTeam          string   `json:"winningTeam,omitempty"`
	MOTMIDs              []string `json:"motmIds"`
	HonourableMentionIDs []string `json:"honourableMentionIds"`
	CaptainPinkID        string   `json:"captainPinkId,omitempty"`
	CaptainBlueID        string   `json:"captainBlueId,omitempty"`
	OTFIDs               []string `json:"otfIds"`
	Notes                string   `json:"notes,omitempty"`
	CountsForStats       bool     `json:"countsForStats"`
}

// PartnershipRow is a scorer+assister pairing. CountExclOG strips own
// goals for displays that want the pairing without that noise.
type PartnershipRow struct {
	ScorerID    string `json:"scorerId"`
	AssistID    string `json:"assistId"`
	Count       int    `json:"count"`
	CountExclOG int    `json:"countExclOG"`
}

// DefensivePairRow is a shared-clean-sheet pairing of exactly two
// credited defenders.
type DefensivePairRow struct {
	PlayerID1 string `json:"playerId1"`
	PlayerID2 string `json:"playerId2"`
	Count     int    `json:"count"`
}

// DefensivePairGARow accumulates goals-against over every defender pair,
// clean sheet or not. GAPerMatch is null when Matches is zero.
type DefensivePairGARow struct {
	PlayerID1    string   `json:"playerId1"`
	PlayerID2    string   `json:"playerId2"`
	Matches      int      `json:"matches"`
	GoalsAgainst int      `json:"goalsAgainst"`
	GAPerMatch   *float64 `json:"gaPerMatch"`
}

// DefensiveUnitGARow is the goals-against record for a full backline
// (defenders plus keeper when set).
type DefensiveUnitGARow struct {
	PlayerIDs    []string `json:"playerIds"`
	Matches      int      `json:"matches"`
	GoalsAgainst int      `json:"goalsAgainst"`
	GAPerMatch   *float64 `json:"gaPerMatch"`
}

// Meta describes one aggregation run.
type Meta struct {
	GeneratedAt                string `json:"generatedAt"`
	Year                       int    `json:"year"`
	MatchesInYear              int    `json:"matchesInYear"`
	MatchesCountForStatsInYear int    `json:"matchesCountForStatsInYear"`
	MatchesNonStatInYear       int    `json:"matchesNonStatInYear"`
	GoalsIncluded              int    `json:"goalsIncluded"`
}

// Snapshot is the single document one aggregation run produces.
type Snapshot struct {
	Players map[string]*PlayerEntry `json:"players"`
	Goals   []goal.Event            `json:"goals"`
	Matches []MatchRow              `json:"matches"`

	Partnerships                      []PartnershipRow     `json:"partnerships"`
	DefensivePartnerships             []DefensivePairRow   `json:"defensivePartnerships"`
	DefensivePartnershipsGoalsAgainst []DefensivePairGARow `json:"defensivePartnershipsGoalsAgainst"`
	DefensiveUnitsGoalsAgainst        []DefensiveUnitGARow `json:"defensiveUnitsGoalsAgainst"`

	Meta Meta `json:"meta"`
}

// NewPlayerStats builds a zeroed accumulator with the form window
// pre-filled with did-not-play padding.
func NewPlayerStats() *PlayerStats {
	form := make([]FormToken, FormWindow)
	for i := range form {
		form[i] = FormDidNotPlay
	}
	return &PlayerStats{Form: form}
}
