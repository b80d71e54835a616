package usecase

import (
	"fmt"

	"github.com/borderville/season-stats/internal/domain/match"
	"github.com/borderville/season-stats/internal/domain/season"
)

// encodeForm fills every accumulator's form sequence from the season's
// most recent stats-counting matches, ordered most recent first. Matches
// beyond the window are ignored; a short season pads the oldest slots
// with did-not-play.
//
// A MOTM credit on a losing roster is upstream data corruption and must
// not be encoded into a token; it aborts the run.
func (st *runState) encodeForm(recentFirst []match.Match) error {
	window := recentFirst
	if len(window) > season.FormWindow {
		window = window[:season.FormWindow]
	}

	for id, s := range st.stats {
		for i, m := range window {
			token, err := formToken(m, id)
			if err != nil {
				return err
			}
			s.Form[i] = token
		}
		s.PlayedLast10 = season.PlayedCount(s.Form)
	}
	return nil
}

func formToken(m match.Match, playerID string) (season.FormToken, error) {
	side, ok := m.OnRoster(playerID)
	if !ok {
		return season.FormDidNotPlay, nil
	}

	// An undecided outcome encodes as a draw so a MOTM credit on such a
	// match is never misread as the losing-side violation.
	var result season.Result
	switch m.WinningTeam {
	case match.Draw, "":
		result = season.ResultDraw
	case side:
		result = season.ResultWin
	default:
		result = season.ResultLoss
	}

	isCaptain := (side == match.TeamPink && m.CaptainPink == playerID) ||
		(side == match.TeamBlue && m.CaptainBlue == playerID)
	isMOTM := m.IsMOTM(playerID)

	token, ok := season.TokenFor(season.FormKey{Result: result, Captain: isCaptain, MOTM: isMOTM})
	if !ok {
		return "", fmt.Errorf("%w: player %s is MOTM on losing side of match %s", ErrDataIntegrity, playerID, m.ID)
	}
	return token, nil
}
