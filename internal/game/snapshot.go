package game

import "time"

// RoomSnapshot is the serializable authoritative state of a room: the
// payload pushed to clients on every transition and the record saved to
// Redis, from which a room can be rebuilt after a restart.
type RoomSnapshot struct {
	Code     string     `json:"code"`
	GameType GameType   `json:"gameType"`
	Status   RoomStatus `json:"status"`

	CurrentRound   int `json:"currentRound"`
	TotalRounds    int `json:"totalRounds"`
	RoundLengthSec int `json:"roundLengthSec"`
	WordsPerTurn   int `json:"wordsPerTurn"`

	TurnTeam        Team      `json:"turnTeam,omitempty"`
	TurnDescriberID string    `json:"turnDescriberId,omitempty"`
	TurnPhase       TurnPhase `json:"turnPhase,omitempty"`
	TurnEndMs       int64     `json:"turnEndMs"` // 0 = no active deadline

	CurrentWords []TurnWord     `json:"currentWords,omitempty"`
	TeamScores   TeamScores     `json:"teamScores"`
	PlayerScores map[string]int `json:"playerScores,omitempty"`

	Wavelength *WavelengthState `json:"wavelength,omitempty"`
	Plant      *PlantState      `json:"plant,omitempty"`

	Players []PlayerState `json:"players"`
	Version int64         `json:"version"`
}

func (r *Room) snapshotLocked() RoomSnapshot {
	var endMs int64
	if !r.turnEndTime.IsZero() {
		endMs = r.turnEndTime.UnixMilli()
	}

	players := make([]PlayerState, 0, len(r.players))
	for _, p := range r.allPlayersByJoinLocked() {
		players = append(players, *p)
	}

	var scores map[string]int
	if len(r.playerScores) > 0 {
		scores = make(map[string]int, len(r.playerScores))
		for k, v := range r.playerScores {
			scores[k] = v
		}
	}

	snap := RoomSnapshot{
		Code:            r.code,
		GameType:        r.gameType,
		Status:          r.status,
		CurrentRound:    r.currentRound,
		TotalRounds:     r.totalRounds,
		RoundLengthSec:  int(r.roundLength / time.Second),
		WordsPerTurn:    r.wordsPerTurn,
		TurnTeam:        r.turnTeam,
		TurnDescriberID: r.turnDescriber,
		TurnPhase:       r.turnPhase,
		TurnEndMs:       endMs,
		CurrentWords:    append([]TurnWord(nil), r.currentWords...),
		TeamScores:      r.teamScores,
		PlayerScores:    scores,
		Players:         players,
		Version:         r.version,
	}
	if r.wavelength != nil {
		w := *r.wavelength
		snap.Wavelength = &w
	}
	if r.plant != nil {
		p := *r.plant
		p.CandidateWords = append([]string(nil), r.plant.CandidateWords...)
		p.Guesses = copyStringMap(r.plant.Guesses)
		p.RoundScores = copyIntMap(r.plant.RoundScores)
		snap.Plant = &p
	}
	return snap
}

func (r *Room) restoreLocked(s RoomSnapshot) {
	r.code = s.Code
	r.gameType = s.GameType
	r.status = s.Status
	r.currentRound = s.CurrentRound
	r.totalRounds = s.TotalRounds
	r.roundLength = time.Duration(s.RoundLengthSec) * time.Second
	r.wordsPerTurn = s.WordsPerTurn
	r.turnTeam = s.TurnTeam
	r.turnDescriber = s.TurnDescriberID
	r.turnPhase = s.TurnPhase
	if s.TurnEndMs > 0 {
		r.turnEndTime = time.UnixMilli(s.TurnEndMs)
	} else {
		r.turnEndTime = time.Time{}
	}
	r.currentWords = append([]TurnWord(nil), s.CurrentWords...)
	r.teamScores = s.TeamScores

	r.playerScores = make(map[string]int, len(s.PlayerScores))
	for k, v := range s.PlayerScores {
		r.playerScores[k] = v
	}

	r.wavelength = nil
	if s.Wavelength != nil {
		w := *s.Wavelength
		r.wavelength = &w
	}
	r.plant = nil
	if s.Plant != nil {
		p := *s.Plant
		if p.Guesses == nil {
			p.Guesses = map[string]string{}
		}
		if p.RoundScores == nil {
			p.RoundScores = map[string]int{}
		}
		r.plant = &p
	}

	r.players = make(map[string]*PlayerState, len(s.Players))
	for _, p := range s.Players {
		cp := p
		r.players[p.ID] = &cp
	}
	r.version = s.Version
}

// Snapshot returns the current authoritative state.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
