package player

// Position represents the position bucket a player is listed under.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Valid reports whether p is one of the known position buckets.
func (p Position) Valid() bool {
	_, ok := AllPositions[p]
	return ok
}

// Player is one registered league member, after normalization. Starting
// balances carry totals accrued before per-match records began; season
// counters are layered on top of them downstream.
type Player struct {
	ID           string
	Name         string
	Position     Position
	DateOfBirth  string
	ProfilePhoto string
	Nicknames    []string
	Excluded     bool

	StartingCaps int
	StartingMOTM int
	StartingSubs float64
	SubsAdded    float64
}

// Unknown builds a placeholder for a player id referenced by a match or
// goal record but missing from the players table.
func Unknown(id string) Player {
	return Player{ID: id, Name: "Unknown"}
}
