package season

import "testing"

func TestTokenForDecisionTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		key  FormKey
		want FormToken
		ok   bool
	}{
		{"win plain", FormKey{ResultWin, false, false}, FormWin, true},
		{"win captain", FormKey{ResultWin, true, false}, FormWinCaptain, true},
		{"win motm", FormKey{ResultWin, false, true}, FormWinMOTM, true},
		{"win captain motm", FormKey{ResultWin, true, true}, FormWinCaptainMOTM, true},
		{"draw plain", FormKey{ResultDraw, false, false}, FormDraw, true},
		{"draw captain", FormKey{ResultDraw, true, false}, FormDrawCaptain, true},
		{"draw motm", FormKey{ResultDraw, false, true}, FormDrawMOTM, true},
		{"draw captain motm", FormKey{ResultDraw, true, true}, FormDrawCaptainMOTM, true},
		{"loss plain", FormKey{ResultLoss, false, false}, FormLoss, true},
		{"loss captain", FormKey{ResultLoss, true, false}, FormLossCaptain, true},
		{"loss motm rejected", FormKey{ResultLoss, false, true}, "", false},
		{"loss captain motm rejected", FormKey{ResultLoss, true, true}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TokenFor(tc.key)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("TokenFor(%+v) = (%q, %v), want (%q, %v)", tc.key, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestPlayedCount(t *testing.T) {
	t.Parallel()

	form := []FormToken{FormWin, FormDidNotPlay, FormLossCaptain, FormDidNotPlay, FormDraw}
	if got := PlayedCount(form); got != 3 {
		t.Fatalf("PlayedCount = %d, want 3", got)
	}
}
