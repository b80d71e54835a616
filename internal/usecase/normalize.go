package usecase

import (
	"math"
	"strings"
	"time"

	"github.com/borderville/season-stats/internal/domain/goal"
	"github.com/borderville/season-stats/internal/domain/match"
	"github.com/borderville/season-stats/internal/domain/player"
	"github.com/borderville/season-stats/internal/domain/record"
	"github.com/borderville/season-stats/internal/domain/season"
)

// FieldMap binds the table store's display names to the typed models.
// It is the only place raw field bags are touched; everything downstream
// works on typed records.
type FieldMap struct {
	PlayerName         string
	PlayerPosition     string
	PlayerDOB          string
	PlayerProfilePhoto string
	PlayerNicknames    string
	PlayerExcluded     string
	PlayerStartCaps    string
	PlayerStartMOTM    string
	PlayerStartSubs    string
	PlayerSubsAdded    string

	MatchName           string
	MatchDate           string
	MatchPinkPlayers    string
	MatchBluePlayers    string
	MatchPinkGoals      string
	MatchBlueGoals      string
	MatchWinningTeam    string
	MatchPinkCaptain    string
	MatchBlueCaptain    string
	MatchPinkGK         string
	MatchBlueGK         string
	MatchPinkDefenders  string
	MatchBlueDefenders  string
	MatchCleanPink      string
	MatchCleanBlue      string
	MatchMOTM           string
	MatchHonourable     string
	MatchOTFs           string
	MatchNotes          string
	MatchCountsForStats string

	GoalMatch  string
	GoalScorer string
	GoalAssist string
	GoalIsOwn  string
}

// DefaultFieldMap matches the production table layout.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		PlayerName:         "Name",
		PlayerPosition:     "Position",
		PlayerDOB:          "Date of Birth",
		PlayerProfilePhoto: "Profile Photo",
		PlayerNicknames:    "Nicknames",
		PlayerExcluded:     "Excluded",
		PlayerStartCaps:    "Starting Caps",
		PlayerStartMOTM:    "Starting MOTM",
		PlayerStartSubs:    "Starting Subs",
		PlayerSubsAdded:    "Subs Added",

		MatchName:           "Name",
		MatchDate:           "Date Played",
		MatchPinkPlayers:    "Pink Team Players",
		MatchBluePlayers:    "Blue Team Players",
		MatchPinkGoals:      "Pink Goals",
		MatchBlueGoals:      "Blue Goals",
		MatchWinningTeam:    "Winning Team",
		MatchPinkCaptain:    "Pink Captain",
		MatchBlueCaptain:    "Blue Captain",
		MatchPinkGK:         "Pink Goalkeeper",
		MatchBlueGK:         "Blue Goalkeeper",
		MatchPinkDefenders:  "Pink Defenders",
		MatchBlueDefenders:  "Blue Defenders",
		MatchCleanPink:      "Clean Sheet (Pink)",
		MatchCleanBlue:      "Clean Sheet (Blue)",
		MatchMOTM:           "Player of the Match",
		MatchHonourable:     "Honourable Mentions",
		MatchOTFs:           "OTFs (Over The Fences)",
		MatchNotes:          "Notes",
		MatchCountsForStats: "Counts For Stats",

		GoalMatch:  "Match",
		GoalScorer: "Scorer",
		GoalAssist: "Assist",
		GoalIsOwn:  "Is Own Goal",
	}
}

// Normalizer converts raw records into typed models. Pure mapping, no
// side effects; malformed input degrades to each field's zero value.
type Normalizer struct {
	fields FieldMap
}

func NewNormalizer(fields FieldMap) *Normalizer {
	return &Normalizer{fields: fields}
}

func (n *Normalizer) Player(r record.Record) player.Player {
	f := n.fields
	return player.Player{
		ID:           r.ID,
		Name:         r.String(f.PlayerName),
		Position:     player.Position(r.String(f.PlayerPosition)),
		DateOfBirth:  r.String(f.PlayerDOB),
		ProfilePhoto: firstAttachmentURL(r.Fields[f.PlayerProfilePhoto]),
		Nicknames:    splitNicknames(r.String(f.PlayerNicknames)),
		Excluded:     r.Bool(f.PlayerExcluded),
		StartingCaps: intField(r, f.PlayerStartCaps),
		StartingMOTM: intField(r, f.PlayerStartMOTM),
		StartingSubs: floatField(r, f.PlayerStartSubs),
		SubsAdded:    floatField(r, f.PlayerSubsAdded),
	}
}

func (n *Normalizer) Match(r record.Record) match.Match {
	f := n.fields
	m := match.Match{
		ID:                 r.ID,
		Name:               r.String(f.MatchName),
		Date:               parseDate(r.String(f.MatchDate)),
		Pink:               season.Dedup(r.Refs(f.MatchPinkPlayers)),
		Blue:               season.Dedup(r.Refs(f.MatchBluePlayers)),
		PinkGoals:          intField(r, f.MatchPinkGoals),
		BlueGoals:          intField(r, f.MatchBlueGoals),
		WinningTeam:        winningTeam(r.String(f.MatchWinningTeam)),
		CaptainPink:        r.FirstRef(f.MatchPinkCaptain),
		CaptainBlue:        r.FirstRef(f.MatchBlueCaptain),
		KeeperPink:         r.FirstRef(f.MatchPinkGK),
		KeeperBlue:         r.FirstRef(f.MatchBlueGK),
		DefendersPink:      season.Dedup(r.Refs(f.MatchPinkDefenders)),
		DefendersBlue:      season.Dedup(r.Refs(f.MatchBlueDefenders)),
		CleanPink:          season.Dedup(r.Refs(f.MatchCleanPink)),
		CleanBlue:          season.Dedup(r.Refs(f.MatchCleanBlue)),
		MOTM:               season.Dedup(r.Refs(f.MatchMOTM)),
		HonourableMentions: season.Dedup(r.Refs(f.MatchHonourable)),
		OTFs:               season.Dedup(r.Refs(f.MatchOTFs)),
		Notes:              r.String(f.MatchNotes),
		CountsForStats:     true,
	}
	// The flag defaults to true; only an explicit false opts a match out.
	if v, ok := r.Fields[f.MatchCountsForStats].(bool); ok {
		m.CountsForStats = v
	}
	return m
}

func (n *Normalizer) Goal(r record.Record) goal.Event {
	f := n.fields
	return goal.Event{
		ID:        r.ID,
		MatchID:   r.FirstRef(f.GoalMatch),
		ScorerID:  r.FirstRef(f.GoalScorer),
		AssistID:  r.FirstRef(f.GoalAssist),
		IsOwnGoal: r.Bool(f.GoalIsOwn),
	}
}

func intField(r record.Record, key string) int {
	return int(floatField(r, key))
}

func floatField(r record.Record, key string) float64 {
	v, ok := r.Float(key)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func winningTeam(s string) match.Team {
	switch s {
	case string(match.TeamPink), string(match.TeamBlue), string(match.Draw):
		return match.Team(s)
	default:
		return ""
	}
}

// parseDate accepts the store's date formats; anything else yields the
// zero time, which excludes the match from aggregation.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// firstAttachmentURL digs the url out of an attachment field, which the
// store encodes as a list of objects. Plain strings pass through.
func firstAttachmentURL(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case []any:
		if len(a) == 0 {
			return ""
		}
		if obj, ok := a[0].(map[string]any); ok {
			u, _ := obj["url"].(string)
			return u
		}
	}
	return ""
}

func splitNicknames(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
