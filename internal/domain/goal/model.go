package goal

// Event is one recorded goal after normalization. MatchID and ScorerID
// are required; events missing either are dropped upstream. AssistID is
// empty for unassisted goals.
type Event struct {
	ID        string `json:"id"`
	MatchID   string `json:"matchId"`
	ScorerID  string `json:"scorerId"`
	AssistID  string `json:"assistId,omitempty"`
	IsOwnGoal bool   `json:"isOwnGoal"`
}

// Resolvable reports whether the event can be attributed at all.
func (e Event) Resolvable() bool {
	return e.MatchID != "" && e.ScorerID != ""
}
