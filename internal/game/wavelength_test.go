package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startedWavelengthRoom(t *testing.T, seed int64, ids ...string) *Room {
	t.Helper()
	r := newTestRoom(GameWavelength, seed)
	joinTeams(r, ids...)
	require.NoError(t, r.StartGame(ids[0]))
	return r
}

func wavelengthGuesser(r *Room) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Team == r.turnTeam && p.ID != r.turnDescriber {
			return p.ID
		}
	}
	return ""
}

func TestWavelength_StartDealsTargetAndCard(t *testing.T) {
	r := startedWavelengthRoom(t, 11, "p1", "p2", "p3", "p4")

	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.wavelength
	if w == nil {
		t.Fatalf("no wavelength state after start")
	}
	if w.TargetPercent < 0 || w.TargetPercent > 100 {
		t.Fatalf("target=%v out of range", w.TargetPercent)
	}
	if w.DialPercent != 50 {
		t.Fatalf("dial=%v want centered 50", w.DialPercent)
	}
	if w.SpectrumCard.Left == "" || w.SpectrumCard.Right == "" {
		t.Fatalf("spectrum card not dealt: %+v", w.SpectrumCard)
	}
	if w.Revealed {
		t.Fatalf("round starts hidden")
	}
	if r.turnEndTime.IsZero() {
		t.Fatalf("round timer not armed")
	}
}

func TestWavelength_DialGuesserOnlyAndClamped(t *testing.T) {
	r := startedWavelengthRoom(t, 11, "p1", "p2", "p3", "p4")
	guesser := wavelengthGuesser(r)

	r.mu.Lock()
	describer := r.turnDescriber
	r.mu.Unlock()

	if err := r.SetDial(describer, 10); err != ErrNotYourTurn {
		t.Fatalf("describer moved the dial: %v", err)
	}
	if err := r.SetDial("p2", 10); err != ErrNotYourTurn {
		t.Fatalf("opposing team moved the dial: %v", err)
	}

	require.NoError(t, r.SetDial(guesser, 150))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wavelength.DialPercent != 100 {
		t.Fatalf("dial=%v want clamped 100", r.wavelength.DialPercent)
	}
}

func TestWavelength_DialThrottleDropsBursts(t *testing.T) {
	r := startedWavelengthRoom(t, 11, "p1", "p2", "p3", "p4")
	guesser := wavelengthGuesser(r)

	base := time.Now()
	r.mu.Lock()
	r.now = func() time.Time { return base }
	r.mu.Unlock()

	require.NoError(t, r.SetDial(guesser, 30))

	// same instant: accepted silently but dropped
	require.NoError(t, r.SetDial(guesser, 60))
	r.mu.Lock()
	if r.wavelength.DialPercent != 30 {
		t.Fatalf("dial=%v, burst write should have been dropped", r.wavelength.DialPercent)
	}
	r.now = func() time.Time { return base.Add(minDialInterval) }
	r.mu.Unlock()

	require.NoError(t, r.SetDial(guesser, 60))
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wavelength.DialPercent != 60 {
		t.Fatalf("dial=%v want 60 after the interval passed", r.wavelength.DialPercent)
	}
}

func TestWavelength_RevealScoresBand(t *testing.T) {
	r := startedWavelengthRoom(t, 11, "p1", "p2", "p3", "p4")
	guesser := wavelengthGuesser(r)

	r.mu.Lock()
	target := r.wavelength.TargetPercent
	r.wavelength.DialPercent = target + 4 // inside the 4-point band
	team := r.turnTeam
	r.mu.Unlock()

	require.NoError(t, r.Reveal(guesser))

	r.mu.Lock()
	defer r.mu.Unlock()
	got := r.teamScores.Neon
	if team == TeamCyber {
		got = r.teamScores.Cyber
	}
	if got != 4 {
		t.Fatalf("score=%d want 4", got)
	}
	if !r.wavelength.Revealed {
		t.Fatalf("state not revealed")
	}
	if !r.turnEndTime.IsZero() {
		t.Fatalf("timer should be cleared after reveal")
	}
}

func TestWavelength_RevealTwiceRejected(t *testing.T) {
	r := startedWavelengthRoom(t, 11, "p1", "p2", "p3", "p4")
	guesser := wavelengthGuesser(r)

	require.NoError(t, r.Reveal(guesser))
	if err := r.Reveal(guesser); err != ErrInvalidPhase {
		t.Fatalf("second reveal must fail, got %v", err)
	}
	if err := r.SetDial(guesser, 10); err != ErrInvalidPhase {
		t.Fatalf("dial after reveal must fail, got %v", err)
	}
}

func TestWavelength_TimeoutRevealsOnce(t *testing.T) {
	r := startedWavelengthRoom(t, 11, "p1", "p2", "p3", "p4")

	r.mu.Lock()
	r.wavelength.DialPercent = r.wavelength.TargetPercent // 4 points
	team := r.turnTeam
	token := r.timerToken
	r.mu.Unlock()

	r.onPhaseTimeout(token)
	r.onPhaseTimeout(token)

	r.mu.Lock()
	defer r.mu.Unlock()
	got := r.teamScores.Neon
	if team == TeamCyber {
		got = r.teamScores.Cyber
	}
	if got != 4 {
		t.Fatalf("score=%d want 4 exactly once", got)
	}
}

func TestWavelength_NextRoundRotatesAndDeals(t *testing.T) {
	r := startedWavelengthRoom(t, 11, "p1", "p2", "p3", "p4")
	guesser := wavelengthGuesser(r)

	if err := r.NextRound(guesser); err != ErrInvalidPhase {
		t.Fatalf("next round before reveal must fail, got %v", err)
	}
	require.NoError(t, r.Reveal(guesser))

	r.mu.Lock()
	prevTeam := r.turnTeam
	prevRound := r.currentRound
	r.mu.Unlock()

	require.NoError(t, r.NextRound("p2"))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.turnTeam != prevTeam.Other() {
		t.Fatalf("turn stayed with %s", r.turnTeam)
	}
	if r.currentRound != prevRound+1 {
		t.Fatalf("round=%d want %d", r.currentRound, prevRound+1)
	}
	if r.wavelength.Revealed {
		t.Fatalf("fresh round must start hidden")
	}
	if d := r.players[r.turnDescriber]; d == nil || d.Team != r.turnTeam {
		t.Fatalf("describer %q not on the new active team", r.turnDescriber)
	}
}
