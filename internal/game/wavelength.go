package game

// Dial game transitions. The describer sees a hidden target on a
// left/right spectrum and gives a clue; teammates tune a shared dial
// and lock it in. Rotation between teams mirrors the word game.

func (r *Room) startWavelengthGameLocked() {
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
	if team == TeamNeon {
		r.teamScores.NeonTurnIndex = firstIdx
		r.teamScores.CyberTurnIndex = -1
	} else {
		r.teamScores.CyberTurnIndex = firstIdx
		r.teamScores.NeonTurnIndex = -1
	}

	r.dealWavelengthRoundLocked()
}

func (r *Room) dealWavelengthRoundLocked() {
	r.wavelength = &WavelengthState{
		TargetPercent: r.rng.Float64() * 100,
		DialPercent:   50,
		SpectrumCard:  randomSpectrumCard(r.rng),
		Revealed:      false,
	}
	r.armTimerLocked(r.roundLength)
}

// SetDial moves the shared dial. Active-team guessers only, and no
// faster than one accepted write per 50ms, which bounds the write
// amplification from raw pointer movement. Throttled updates are
// dropped, not rejected: the next one carries the fresh position anyway.
func (r *Room) SetDial(playerID string, percent float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying || r.gameType != GameWavelength || r.wavelength == nil {
		return ErrInvalidPhase
	}
	if r.wavelength.Revealed {
		return ErrInvalidPhase
	}
	p, ok := r.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if !r.isWavelengthGuesserLocked(p) {
		return ErrNotYourTurn
	}

	now := r.now()
	if now.Sub(r.lastDial) < minDialInterval {
		return nil
	}
	r.lastDial = now

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	r.wavelength.DialPercent = percent
	r.commitLocked()
	return nil
}

// Reveal locks the dial in and scores the turn. Guesser-triggered, or
// fired by the phase timer when time runs out.
func (r *Room) Reveal(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying || r.gameType != GameWavelength || r.wavelength == nil {
		return ErrInvalidPhase
	}
	if r.wavelength.Revealed {
		return ErrInvalidPhase
	}
	p, ok := r.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if !r.isWavelengthGuesserLocked(p) {
		return ErrNotYourTurn
	}

	r.revealLocked()
	r.commitLocked()
	return nil
}

func (r *Room) revealLocked() {
	diff := r.wavelength.TargetPercent - r.wavelength.DialPercent
	pts := Band(diff)

	if r.turnTeam == TeamNeon {
		r.teamScores.Neon += pts
	} else {
		r.teamScores.Cyber += pts
	}
	r.wavelength.Revealed = true
	r.clearTimerLocked()
}

// NextRound rotates to the other team's next describer and deals a new
// target and spectrum card. Anyone in the room may advance once the
// result is on the table.
func (r *Room) NextRound(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return ErrUnknownPlayer
	}

	switch r.gameType {
	case GameWavelength:
		if r.status != StatusPlaying || r.wavelength == nil || !r.wavelength.Revealed {
			return ErrInvalidPhase
		}
		r.rotateTeamsLocked()
		r.currentRound++
		r.dealWavelengthRoundLocked()
	case GamePlant:
		if err := r.requireHostLocked(playerID); err != nil {
			return err
		}
		if r.status != StatusPlaying || r.plant == nil || r.plant.Phase != PlantScoreboard {
			return ErrInvalidPhase
		}
		r.currentRound++
		r.startPlantRoundLocked()
	default:
		return ErrInvalidPhase
	}

	r.commitLocked()
	return nil
}

// rotateTeamsLocked flips the active team (staying put if the other
// side is empty) and advances that team's describer rotation.
func (r *Room) rotateTeamsLocked() {
	nextTeam := r.turnTeam.Other()
	members := r.teamPlayersLocked(nextTeam)
	if len(members) == 0 {
		nextTeam = r.turnTeam
		members = r.teamPlayersLocked(nextTeam)
	}

	if len(members) > 0 {
		var nextIdx int
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
}

func (r *Room) isWavelengthGuesserLocked(p *PlayerState) bool {
	return p.Team == r.turnTeam && p.ID != r.turnDescriber
}
