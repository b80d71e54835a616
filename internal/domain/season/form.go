package season

// FormToken is a single-character-ish code for one slot of a player's
// recent-form sequence.
type FormToken string

const (
	FormDidNotPlay FormToken = "-"

	FormWin            FormToken = "W"
	FormWinCaptain     FormToken = "WC"
	FormWinMOTM        FormToken = "WM"
	FormWinCaptainMOTM FormToken = "WCM"

	FormDraw            FormToken = "D"
	FormDrawCaptain     FormToken = "DC"
	FormDrawMOTM        FormToken = "DM"
	FormDrawCaptainMOTM FormToken = "DCM"

	FormLoss        FormToken = "L"
	FormLossCaptain FormToken = "LC"
)

// FormWindow is the fixed number of recent stats-counting matches encoded
// per player, most recent first. Shorter histories pad the tail with
// FormDidNotPlay.
const FormWindow = 10

// Result is a player's outcome in one match, relative to their own team.
type Result int

const (
	ResultLoss Result = iota
	ResultDraw
	ResultWin
)

// FormKey indexes the token decision table: team result crossed with the
// player's captain and MOTM status for that match.
type FormKey struct {
	Result  Result
	Captain bool
	MOTM    bool
}

// formTable maps every legal (result, captain, motm) combination to its
// token. MOTM on a loss has no entry: that combination is rejected as a
// data-integrity violation before lookup.
var formTable = map[FormKey]FormToken{
	{ResultWin, false, false}: FormWin,
	{ResultWin, true, false}:  FormWinCaptain,
	{ResultWin, false, true}:  FormWinMOTM,
	{ResultWin, true, true}:   FormWinCaptainMOTM,

	{ResultDraw, false, false}: FormDraw,
	{ResultDraw, true, false}:  FormDrawCaptain,
	{ResultDraw, false, true}:  FormDrawMOTM,
	{ResultDraw, true, true}:   FormDrawCaptainMOTM,

	{ResultLoss, false, false}: FormLoss,
	{ResultLoss, true, false}:  FormLossCaptain,
}

// TokenFor resolves a form key against the decision table. ok is false for
// the two MOTM-on-loss combinations, which callers must treat as fatal.
func TokenFor(k FormKey) (FormToken, bool) {
	t, ok := formTable[k]
	return t, ok
}

// PlayedCount counts the non-padding slots of a form sequence.
func PlayedCount(form []FormToken) int {
	n := 0
	for _, t := range form {
		if t != FormDidNotPlay {
			n++
		}
	}
	return n
}
