package game

import (
	"errors"
	"strings"
)

// Word-clue game transitions. Two teams take turns; the active team's
// describer clues a dealt set of words while teammates guess them
// through chat.

// startCipherGameLocked picks the starting team and first describer and
// deals the first word set. Neon starts when it has players, otherwise
// cyber; the first describer is a random member, and the rotation
// counter is seeded with that pick so the round-robin continues from it.
func (r *Room) startCipherGameLocked() {
	team := TeamNeon
	members := r.teamPlayersLocked(team)
	if len(members) == 0 {
		team = TeamCyber
		members = r.teamPlayersLocked(team)
	}

	firstIdx := 0
	if len(members) > 0 {
		firstIdx = r.rng.Intn(len(members))
		r.turnDescriber = members[firstIdx].ID
	}

	r.turnTeam = team
	r.turnPhase = TurnReady
	r.currentWords = sampleWords(r.rng, r.wordsPerTurn)
	r.clearTimerLocked()

	if team == TeamNeon {
		r.teamScores.NeonTurnIndex = firstIdx
		r.teamScores.CyberTurnIndex = -1
	} else {
		r.teamScores.CyberTurnIndex = firstIdx
		r.teamScores.NeonTurnIndex = -1
	}
}

// StartTurn arms the turn timer. Describer only; ready phase only.
func (r *Room) StartTurn(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying || r.gameType != GameCipher {
		return ErrInvalidPhase
	}
	if playerID != r.turnDescriber {
		return ErrNotDescriber
	}
	if r.turnPhase != TurnReady {
		return ErrInvalidPhase
	}

	r.turnPhase = TurnPlaying
	r.armTimerLocked(r.roundLength)
	r.commitLocked()
	return nil
}

// MarkWordGuessed lets the describer mark a word off manually (spoken
// guesses in the same room). Team score moves; no player stats, since
// there is no identified guesser.
func (r *Room) MarkWordGuessed(playerID string, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if playerID != r.turnDescriber {
		return ErrNotDescriber
	}
	if err := r.wordGuessedLocked(index, ""); err != nil {
		return err
	}
	r.commitLocked()
	return nil
}

// wordGuessedLocked marks a word, credits the active team and, when a
// guesser is identified, both the guesser's and describer's stats. All
// of it happens inside one serialized transition, so two simultaneous
// guesses on different words both land.
func (r *Room) wordGuessedLocked(index int, guesserID string) error {
	if r.status != StatusPlaying || r.turnPhase != TurnPlaying {
		return ErrInvalidPhase
	}
	if index < 0 || index >= len(r.currentWords) {
		return errors.New("word index out of range")
	}
	w := &r.currentWords[index]
	if w.Guessed {
		return errors.New("word already guessed")
	}
	w.Guessed = true

	pts := w.Points
	if r.turnTeam == TeamNeon {
		r.teamScores.Neon += pts
	} else {
		r.teamScores.Cyber += pts
	}

	if guesserID != "" {
		r.addStatsLocked(guesserID, PlayerStats{WordsGuessed: 1, TotalPoints: pts})
		if r.turnDescriber != "" && r.turnDescriber != guesserID {
			r.addStatsLocked(r.turnDescriber, PlayerStats{DescriberPoints: pts, TotalPoints: pts})
		}
	}

	if r.allWordsGuessedLocked() {
		r.endTurnLocked()
	}
	return nil
}

func (r *Room) allWordsGuessedLocked() bool {
	for _, w := range r.currentWords {
		if !w.Guessed {
			return false
		}
	}
	return len(r.currentWords) > 0
}

// endTurnLocked closes the active turn. The terminal check runs before
// the round increment, so the final round ends the game with
// currentRound untouched. Otherwise the turn passes to the other team
// (or stays, if the other team has nobody), the describer rotation
// advances by one in join order, and a fresh word set is dealt.
func (r *Room) endTurnLocked() {
	if r.currentRound >= r.totalRounds {
		r.finishLocked()
		return
	}

	nextTeam := r.turnTeam.Other()
	members := r.teamPlayersLocked(nextTeam)
	if len(members) == 0 {
		nextTeam = r.turnTeam
		members = r.teamPlayersLocked(nextTeam)
	}

	nextIdx := 0
	if len(members) > 0 {
		if nextTeam == TeamNeon {
			nextIdx = (r.teamScores.NeonTurnIndex + 1) % len(members)
			r.teamScores.NeonTurnIndex = nextIdx
		} else {
			nextIdx = (r.teamScores.CyberTurnIndex + 1) % len(members)
			r.teamScores.CyberTurnIndex = nextIdx
		}
		r.turnDescriber = members[nextIdx].ID
	}

	r.turnTeam = nextTeam
	r.turnPhase = TurnReady
	r.currentWords = sampleWords(r.rng, r.wordsPerTurn)
	r.currentRound++
	r.clearTimerLocked()
}

// handleGuessLocked routes an active guesser's chat line: exact
// case-insensitive trimmed match against an unguessed word scores it,
// anything else lands in the transcript as an incorrect guess.
func (r *Room) handleGuessLocked(p *PlayerState, content string) {
	needle := strings.ToLower(strings.TrimSpace(content))

	for i := range r.currentWords {
		w := &r.currentWords[i]
		if w.Guessed || strings.ToLower(w.Word) != needle {
			continue
		}
		word := w.Word
		if err := r.wordGuessedLocked(i, p.ID); err != nil {
			break
		}
		r.appendMessageLocked(MessageRecord{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Content:    word,
			Type:       MessageGuessCorrect,
			Team:       p.Team,
		})
		return
	}

	r.appendMessageLocked(MessageRecord{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Content:    content,
		Type:       MessageGuessIncorrect,
		Team:       p.Team,
	})
}
