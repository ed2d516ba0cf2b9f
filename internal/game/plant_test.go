package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func startedPlantRoom(t *testing.T, seed int64, ids ...string) *Room {
	t.Helper()
	r := newTestRoom(GamePlant, seed)
	for _, id := range ids {
		r.Join(id, id)
	}
	require.NoError(t, r.StartGame(ids[0]))
	return r
}

func fireTimeout(r *Room) {
	r.mu.Lock()
	token := r.timerToken
	r.mu.Unlock()
	r.onPhaseTimeout(token)
}

func TestPlant_StartDraftsTopicAndCandidates(t *testing.T) {
	r := startedPlantRoom(t, 21, "p1", "p2", "p3")

	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.plant
	if s.Phase != PlantDraft {
		t.Fatalf("phase=%s want draft", s.Phase)
	}
	if _, ok := r.players[s.PlanterID]; !ok {
		t.Fatalf("planter %q is not a player", s.PlanterID)
	}
	if s.Topic == "" {
		t.Fatalf("no topic drawn")
	}
	if len(s.CandidateWords) != 3 {
		t.Fatalf("candidates=%d want 3", len(s.CandidateWords))
	}
	if r.turnEndTime.IsZero() {
		t.Fatalf("draft timer not armed")
	}
}

func TestPlant_PickSecretWordPlanterOnly(t *testing.T) {
	r := startedPlantRoom(t, 21, "p1", "p2", "p3")

	r.mu.Lock()
	planter := r.plant.PlanterID
	word := r.plant.CandidateWords[1]
	r.mu.Unlock()

	other := "p1"
	if other == planter {
		other = "p2"
	}
	if err := r.PickSecretWord(other, word); err != ErrNotYourTurn {
		t.Fatalf("want ErrNotYourTurn, got %v", err)
	}
	if err := r.PickSecretWord(planter, "not-a-candidate"); err == nil {
		t.Fatalf("off-list pick must fail")
	}
	require.NoError(t, r.PickSecretWord(planter, word))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plant.SecretWord != word || r.plant.Phase != PlantMonologue {
		t.Fatalf("secret=%q phase=%s want %q/monologue", r.plant.SecretWord, r.plant.Phase, word)
	}
}

func TestPlant_DraftTimeoutAutoPicks(t *testing.T) {
	r := startedPlantRoom(t, 21, "p1", "p2", "p3")

	fireTimeout(r)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plant.Phase != PlantMonologue {
		t.Fatalf("phase=%s want monologue after draft timeout", r.plant.Phase)
	}
	found := false
	for _, c := range r.plant.CandidateWords {
		if c == r.plant.SecretWord {
			found = true
		}
	}
	if !found {
		t.Fatalf("auto-picked secret %q not among candidates", r.plant.SecretWord)
	}
}

func TestPlant_PhaseCycleOnTimeouts(t *testing.T) {
	r := startedPlantRoom(t, 21, "p1", "p2", "p3")

	phase := func() PlantPhase {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.plant.Phase
	}

	fireTimeout(r) // draft -> monologue
	require.Equal(t, PlantMonologue, phase())
	fireTimeout(r) // monologue -> grill
	require.Equal(t, PlantGrill, phase())
	fireTimeout(r) // grill -> huddle
	require.Equal(t, PlantHuddle, phase())
	fireTimeout(r) // huddle -> verdict
	require.Equal(t, PlantVerdict, phase())

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.turnEndTime.IsZero() {
		t.Fatalf("verdict phase must not run a timer")
	}
}

func toVerdict(t *testing.T, r *Room) (planter, secret string) {
	t.Helper()
	for i := 0; i < 4; i++ {
		fireTimeout(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Equal(t, PlantVerdict, r.plant.Phase)
	return r.plant.PlanterID, r.plant.SecretWord
}

func TestPlant_VerdictRules(t *testing.T) {
	r := startedPlantRoom(t, 21, "p1", "p2", "p3")
	planter, _ := toVerdict(t, r)

	if err := r.SubmitVerdict(planter, "anything"); err == nil {
		t.Fatalf("planter must not vote")
	}

	voter := "p1"
	if voter == planter {
		voter = "p2"
	}
	if err := r.SubmitVerdict(voter, "   "); err == nil {
		t.Fatalf("blank guess must fail")
	}
	require.NoError(t, r.SubmitVerdict(voter, "wrong"))
	if err := r.SubmitVerdict(voter, "again"); err == nil {
		t.Fatalf("resubmission must fail")
	}
}

func TestPlant_NobodyCorrect_PlanterTakesPot(t *testing.T) {
	r := startedPlantRoom(t, 21, "p1", "p2", "p3")
	planter, _ := toVerdict(t, r)

	for _, id := range []string{"p1", "p2", "p3"} {
		if id == planter {
			continue
		}
		require.NoError(t, r.SubmitVerdict(id, "way off"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plant.Phase != PlantScoreboard {
		t.Fatalf("phase=%s want scoreboard after last verdict", r.plant.Phase)
	}
	if r.playerScores[planter] != r.plant.Settings.TotalPot {
		t.Fatalf("planter score=%d want full pot %d", r.playerScores[planter], r.plant.Settings.TotalPot)
	}
}

func TestPlant_CorrectGuessersSplitPot(t *testing.T) {
	r := startedPlantRoom(t, 21, "p1", "p2", "p3", "p4")
	planter, secret := toVerdict(t, r)

	var voters []string
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		if id != planter {
			voters = append(voters, id)
		}
	}
	// matching is trimmed and case-insensitive
	require.NoError(t, r.SubmitVerdict(voters[0], "  "+targetCase(secret)+" "))
	require.NoError(t, r.SubmitVerdict(voters[1], secret))
	require.NoError(t, r.SubmitVerdict(voters[2], "nope"))

	r.mu.Lock()
	defer r.mu.Unlock()
	pot := r.plant.Settings.TotalPot
	want := pot / 2
	if r.playerScores[voters[0]] != want || r.playerScores[voters[1]] != want {
		t.Fatalf("correct guessers got %d/%d want %d each",
			r.playerScores[voters[0]], r.playerScores[voters[1]], want)
	}
	if r.playerScores[planter] != 0 {
		t.Fatalf("planter got %d want 0 once spotted", r.playerScores[planter])
	}
	if r.playerScores[voters[2]] != 0 {
		t.Fatalf("wrong guesser got %d want 0", r.playerScores[voters[2]])
	}
}

func TestPlant_NextRoundHostOnlyFromScoreboard(t *testing.T) {
	r := startedPlantRoom(t, 21, "p1", "p2", "p3")
	planter, _ := toVerdict(t, r)

	if err := r.NextRound("p1"); err != ErrInvalidPhase {
		t.Fatalf("next round before scoreboard must fail, got %v", err)
	}

	for _, id := range []string{"p1", "p2", "p3"} {
		if id != planter {
			require.NoError(t, r.SubmitVerdict(id, "miss"))
		}
	}

	if err := r.NextRound("p2"); err != ErrNotHost {
		t.Fatalf("want ErrNotHost, got %v", err)
	}
	require.NoError(t, r.NextRound("p1"))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plant.Phase != PlantDraft {
		t.Fatalf("phase=%s want fresh draft", r.plant.Phase)
	}
	if r.currentRound != 2 {
		t.Fatalf("round=%d want 2", r.currentRound)
	}
	if r.plant.SecretWord != "" || len(r.plant.Guesses) != 0 {
		t.Fatalf("round state not reset: %+v", r.plant)
	}
	if r.playerScores[planter] == 0 {
		t.Fatalf("cumulative scores must survive the round reset")
	}
}
