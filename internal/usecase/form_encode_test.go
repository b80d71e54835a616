package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/borderville/season-stats/internal/domain/match"
	"github.com/borderville/season-stats/internal/domain/season"
)

func formMatch(id string, day int, mut func(*match.Match)) match.Match {
	m := match.Match{
		ID:             id,
		Date:           time.Date(2026, 4, day, 0, 0, 0, 0, time.UTC),
		Pink:           []string{"p1"},
		Blue:           []string{"b1"},
		WinningTeam:    match.TeamPink,
		CountsForStats: true,
	}
	if mut != nil {
		mut(&m)
	}
	return m
}

func TestEncodeFormPadsOldestSlots(t *testing.T) {
	t.Parallel()

	st := newRunState()
	st.statsFor("p1")

	recent := []match.Match{
		formMatch("m2", 2, func(m *match.Match) { m.WinningTeam = match.Draw }),
		formMatch("m1", 1, nil),
	}
	if err := st.encodeForm(recent); err != nil {
		t.Fatalf("encodeForm: %v", err)
	}

	form := st.stats["p1"].Form
	if form[0] != season.FormDraw || form[1] != season.FormWin {
		t.Fatalf("recent slots wrong: %v", form[:2])
	}
	for i := 2; i < season.FormWindow; i++ {
		if form[i] != season.FormDidNotPlay {
			t.Fatalf("slot %d must be padding, got %q", i, form[i])
		}
	}
	if st.stats["p1"].PlayedLast10 != 2 {
		t.Fatalf("playedLast10 = %d, want 2", st.stats["p1"].PlayedLast10)
	}
}

func TestEncodeFormTokenPrecedence(t *testing.T) {
	t.Parallel()

	st := newRunState()
	st.statsFor("p1")

	recent := []match.Match{
		formMatch("m1", 1, func(m *match.Match) {
			m.CaptainPink = "p1"
			m.MOTM = []string{"p1"}
		}),
	}
	if err := st.encodeForm(recent); err != nil {
		t.Fatalf("encodeForm: %v", err)
	}
	if got := st.stats["p1"].Form[0]; got != season.FormWinCaptainMOTM {
		t.Fatalf("token = %q, want %q", got, season.FormWinCaptainMOTM)
	}
}

func TestEncodeFormDidNotPlay(t *testing.T) {
	t.Parallel()

	st := newRunState()
	st.statsFor("x9")

	if err := st.encodeForm([]match.Match{formMatch("m1", 1, nil)}); err != nil {
		t.Fatalf("encodeForm: %v", err)
	}
	if got := st.stats["x9"].Form[0]; got != season.FormDidNotPlay {
		t.Fatalf("absent player token = %q", got)
	}
}

func TestEncodeFormMOTMOnLossFatal(t *testing.T) {
	t.Parallel()

	st := newRunState()
	st.statsFor("b1")

	recent := []match.Match{
		formMatch("m1", 1, func(m *match.Match) {
			m.MOTM = []string{"b1"} // blue lost
		}),
	}
	err := st.encodeForm(recent)
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestEncodeFormWindowCapped(t *testing.T) {
	t.Parallel()

	st := newRunState()
	st.statsFor("p1")

	var recent []match.Match
	for i := 0; i < 12; i++ {
		recent = append(recent, formMatch("m", 12-i, nil))
	}
	if err := st.encodeForm(recent); err != nil {
		t.Fatalf("encodeForm: %v", err)
	}
	if got := st.stats["p1"].PlayedLast10; got != season.FormWindow {
		t.Fatalf("playedLast10 = %d, want %d", got, season.FormWindow)
	}
}
