package game

import (
	"encoding/json"
	"time"
)

type GameType string

const (
	GameCipher     GameType = "cipher"
	GameWavelength GameType = "wavelength"
	GamePlant      GameType = "the_plant"
)

type RoomStatus string

const (
	StatusLobby    RoomStatus = "lobby"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

type Team string

const (
	TeamNeon  Team = "neon"
	TeamCyber Team = "cyber"
)

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == TeamNeon {
		return TeamCyber
	}
	return TeamNeon
}

type TurnPhase string

const (
	TurnReady   TurnPhase = "ready"
	TurnPlaying TurnPhase = "playing"
)

type PlantPhase string

const (
	PlantDraft      PlantPhase = "draft"
	PlantMonologue  PlantPhase = "monologue"
	PlantGrill      PlantPhase = "grill"
	PlantHuddle     PlantPhase = "huddle"
	PlantVerdict    PlantPhase = "verdict"
	PlantScoreboard PlantPhase = "scoreboard"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Word is an entry in the static word bank.
type Word struct {
	Word       string     `json:"word"`
	Difficulty Difficulty `json:"difficulty"`
	Points     int        `json:"points"`
}

// TurnWord is a word dealt into the current turn of the word game.
type TurnWord struct {
	Word       string     `json:"word"`
	Difficulty Difficulty `json:"difficulty"`
	Points     int        `json:"points"`
	Guessed    bool       `json:"guessed"`
}

// TeamScores holds the two team totals plus the per-team describer
// rotation counters. The counters live next to the scores because they
// advance together in end-of-turn transitions.
type TeamScores struct {
	Neon           int `json:"neon"`
	Cyber          int `json:"cyber"`
	NeonTurnIndex  int `json:"neonTurnIndex"`
	CyberTurnIndex int `json:"cyberTurnIndex"`
}

type SpectrumCard struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type WavelengthState struct {
	TargetPercent float64      `json:"targetPercent"`
	DialPercent   float64      `json:"dialPercent"`
	SpectrumCard  SpectrumCard `json:"spectrumCard"`
	Revealed      bool         `json:"revealed"`
}

// PlantSettings are the per-phase durations (seconds) and the round pot,
// host-mutable before the game starts.
type PlantSettings struct {
	DraftTime     int `json:"draftTime"`
	MonologueTime int `json:"monologueTime"`
	GrillTime     int `json:"grillTime"`
	HuddleTime    int `json:"huddleTime"`
	TotalPot      int `json:"totalPot"`
}

func DefaultPlantSettings() PlantSettings {
	return PlantSettings{
		DraftTime:     20,
		MonologueTime: 90,
		GrillTime:     180,
		HuddleTime:    45,
		TotalPot:      10,
	}
}

type PlantState struct {
	Phase          PlantPhase        `json:"phase"`
	PlanterID      string            `json:"planterId"`
	Topic          string            `json:"topic"`
	CandidateWords []string          `json:"candidateWords"`
	SecretWord     string            `json:"secretWord"`
	Guesses        map[string]string `json:"guesses"`
	RoundScores    map[string]int    `json:"roundScores"`
	Settings       PlantSettings     `json:"settings"`
}

// PlayerStats are cumulative counters, separate from team score.
type PlayerStats struct {
	WordsGuessed    int `json:"wordsGuessed"`
	TotalPoints     int `json:"totalPoints"`
	DescriberPoints int `json:"describerPoints"`
}

func (s PlayerStats) Add(o PlayerStats) PlayerStats {
	s.WordsGuessed += o.WordsGuessed
	s.TotalPoints += o.TotalPoints
	s.DescriberPoints += o.DescriberPoints
	return s
}

type PlayerState struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Team     Team        `json:"team,omitempty"` // empty until the player picks one
	IsHost   bool        `json:"isHost"`
	Stats    PlayerStats `json:"stats"`
	JoinedAt time.Time   `json:"joinedAt"`
}

type MessageType string

const (
	MessageChat           MessageType = "chat"
	MessageSystem         MessageType = "system"
	MessageGuessCorrect   MessageType = "guess_correct"
	MessageGuessIncorrect MessageType = "guess_incorrect"
)

// MessageRecord is one entry in a room's append-only transcript. A
// correct guess in the word game is detected from chat content, so the
// transcript doubles as the guess log.
type MessageRecord struct {
	ID         int64       `json:"id"`
	RoomCode   string      `json:"roomCode"`
	PlayerID   string      `json:"playerId,omitempty"` // empty for system messages
	PlayerName string      `json:"playerName,omitempty"`
	Content    string      `json:"content"`
	Type       MessageType `json:"type"`
	Team       Team        `json:"team,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Envelope WS envelope: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Incoming action payloads. Each carries the minimal data the
// transition needs; the room and player are implied by the connection.
type JoinTeamPayload struct {
	Team Team `json:"team"`
}

type UpdateSettingPayload struct {
	Field string `json:"field"` // total_rounds|round_length|words_per_turn
	Value int    `json:"value"`
}

type SendMessagePayload struct {
	Content string `json:"content"`
}

type WordGuessedPayload struct {
	Index int `json:"index"`
}

type SetDialPayload struct {
	Percent float64 `json:"percent"`
}

type PickWordPayload struct {
	Word string `json:"word"`
}

type SubmitVerdictPayload struct {
	Guess string `json:"guess"`
}

// Outgoing payloads.
type StatePayload struct {
	You  string       `json:"you"` // player id this snapshot was rendered for
	Room RoomSnapshot `json:"room"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
