package game

// Band maps a dial miss distance (percent points) to the wavelength
// score. Non-increasing step function over {4,3,2,0}.
func Band(diff float64) int {
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 5:
		return 4
	case diff <= 12:
		return 3
	case diff <= 20:
		return 2
	default:
		return 0
	}
}

// Distribute splits a round pot between the planter and the players who
// guessed the secret word. Nobody correct: the planter takes the whole
// pot. Otherwise each correct guesser gets floor(pot/n) and the planter
// gets zero. Floor division can leave a remainder unawarded.
func Distribute(pot int, correctGuessers []string, planterID string) map[string]int {
	out := make(map[string]int, len(correctGuessers)+1)
	if len(correctGuessers) == 0 {
		out[planterID] = pot
		return out
	}
	share := pot / len(correctGuessers)
	for _, id := range correctGuessers {
		out[id] = share
	}
	out[planterID] = 0
	return out
}

// PointsFor returns the fixed point value of a difficulty tier. The
// value is stamped onto each word when the turn is dealt, so scoring a
// guess never re-derives it.
func PointsFor(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 3
	case DifficultyHard:
		return 5
	default:
		return 0
	}
}
