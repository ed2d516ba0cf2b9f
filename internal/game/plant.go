package game

import (
	"errors"
	"strings"
	"time"
)

// Social-deduction game transitions. One player (the planter) hides a
// secret word inside a story about a random topic; everyone else tries
// to spot it. Six-phase linear cycle per round:
//
//	draft -> monologue -> grill -> huddle -> verdict -> scoreboard
//
// The first four advance on the phase timer; verdict waits for every
// non-planter guess; scoreboard waits for the host.

// startPlantRoundLocked begins a round: random planter, random topic,
// three candidate secret words, draft timer armed.
func (r *Room) startPlantRoundLocked() {
	// pick through the room rng over the join ordering; map iteration
	// order would not be seedable in tests
	members := r.allPlayersByJoinLocked()
	planter := members[r.rng.Intn(len(members))]

	r.plant.Phase = PlantDraft
	r.plant.PlanterID = planter.ID
	r.plant.Topic = randomTopic(r.rng)
	r.plant.CandidateWords = sampleNouns(r.rng, 3)
	r.plant.SecretWord = ""
	r.plant.Guesses = map[string]string{}
	r.plant.RoundScores = map[string]int{}

	r.armTimerLocked(time.Duration(r.plant.Settings.DraftTime) * time.Second)
}

// PickSecretWord is the planter's draft choice. Moves to monologue.
func (r *Room) PickSecretWord(playerID, word string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying || r.gameType != GamePlant || r.plant.Phase != PlantDraft {
		return ErrInvalidPhase
	}
	if playerID != r.plant.PlanterID {
		return ErrNotYourTurn
	}
	found := false
	for _, c := range r.plant.CandidateWords {
		if c == word {
			found = true
			break
		}
	}
	if !found {
		return errors.New("word is not one of the candidates")
	}

	r.setSecretWordLocked(word)
	r.commitLocked()
	return nil
}

func (r *Room) setSecretWordLocked(word string) {
	r.plant.SecretWord = word
	r.plant.Phase = PlantMonologue
	r.armTimerLocked(time.Duration(r.plant.Settings.MonologueTime) * time.Second)
}

// plantTimeoutLocked advances the linear cycle when a phase timer
// expires. A draft timeout auto-picks a random candidate so an absent
// planter cannot stall the round.
func (r *Room) plantTimeoutLocked() {
	s := r.plant
	switch s.Phase {
	case PlantDraft:
		word := s.CandidateWords[r.rng.Intn(len(s.CandidateWords))]
		r.setSecretWordLocked(word)
	case PlantMonologue:
		s.Phase = PlantGrill
		r.armTimerLocked(time.Duration(s.Settings.GrillTime) * time.Second)
	case PlantGrill:
		s.Phase = PlantHuddle
		r.armTimerLocked(time.Duration(s.Settings.HuddleTime) * time.Second)
	case PlantHuddle:
		// verdict has no timer; it waits for all guesses
		s.Phase = PlantVerdict
		r.clearTimerLocked()
	}
}

// SubmitVerdict records a non-planter's guess at the secret word. The
// last guess in settles the round: if nobody matched, the planter takes
// the whole pot; otherwise the pot splits evenly (floored) among the
// correct guessers and the planter gets nothing.
func (r *Room) SubmitVerdict(playerID, guess string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying || r.gameType != GamePlant || r.plant.Phase != PlantVerdict {
		return ErrInvalidPhase
	}
	if playerID == r.plant.PlanterID {
		return errors.New("the planter does not vote")
	}
	if _, ok := r.players[playerID]; !ok {
		return ErrUnknownPlayer
	}
	guess = strings.TrimSpace(guess)
	if guess == "" {
		return errors.New("empty guess")
	}
	if _, done := r.plant.Guesses[playerID]; done {
		return errors.New("verdict already submitted")
	}

	r.plant.Guesses[playerID] = guess
	if r.allVerdictsInLocked() {
		r.settleRoundLocked()
	}
	r.commitLocked()
	return nil
}

func (r *Room) allVerdictsInLocked() bool {
	for id := range r.players {
		if id == r.plant.PlanterID {
			continue
		}
		if _, ok := r.plant.Guesses[id]; !ok {
			return false
		}
	}
	return true
}

func (r *Room) settleRoundLocked() {
	s := r.plant
	secret := strings.ToLower(strings.TrimSpace(s.SecretWord))

	var correct []string
	for id, g := range s.Guesses {
		if strings.ToLower(strings.TrimSpace(g)) == secret {
			correct = append(correct, id)
		}
	}

	s.RoundScores = Distribute(s.Settings.TotalPot, correct, s.PlanterID)
	for id, pts := range s.RoundScores {
		r.playerScores[id] += pts
	}

	s.Phase = PlantScoreboard
	r.clearTimerLocked()
}

func (r *Room) allPlayersByJoinLocked() []*PlayerState {
	out := make([]*PlayerState, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	sortPlayersByJoin(out)
	return out
}
