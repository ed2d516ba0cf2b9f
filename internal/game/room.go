package game

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotHost       = errors.New("only the host can do that")
	ErrNotDescriber  = errors.New("only the describer can do that")
	ErrNotYourTurn   = errors.New("not your team's turn")
	ErrInvalidPhase  = errors.New("invalid phase for action")
	ErrUnknownPlayer = errors.New("player has not joined this room")
)

// Config carries room defaults; host-mutable settings start from these.
type Config struct {
	TotalRounds  int
	RoundLength  time.Duration
	WordsPerTurn int
}

func DefaultConfig() Config {
	return Config{
		TotalRounds:  12,
		RoundLength:  60 * time.Second,
		WordsPerTurn: 10,
	}
}

// minDialInterval bounds how often dial updates are accepted per room.
// Pointer movement is far noisier than anyone needs to see.
const minDialInterval = 50 * time.Millisecond

// Room is the single authoritative arbiter for one game session. Every
// transition is serialized under mu, so concurrent actions from
// different connections can never interleave a read-modify-write: the
// last-write-wins races of a shared-store design are structurally gone.
// Methods with the *Locked suffix require mu held.
type Room struct {
	code     string
	gameType GameType
	mu       sync.Mutex

	status       RoomStatus
	currentRound int
	totalRounds  int
	roundLength  time.Duration
	wordsPerTurn int

	turnTeam      Team
	turnDescriber string
	turnPhase     TurnPhase
	turnEndTime   time.Time

	currentWords []TurnWord
	teamScores   TeamScores
	playerScores map[string]int // per-player totals for the plant

	wavelength *WavelengthState
	plant      *PlantState

	players map[string]*PlayerState
	version int64

	subs map[*ClientConn]string // conn -> player id

	phaseTimer *time.Timer
	timerToken int64
	lastDial   time.Time

	rng *rand.Rand
	now func() time.Time

	onPersist func(RoomSnapshot)
	onMessage func(MessageRecord)
	onStats   func(playerID string, delta PlayerStats)
}

func NewRoom(code string, gameType GameType, cfg Config, rng *rand.Rand) *Room {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r := &Room{
		code:         code,
		gameType:     gameType,
		status:       StatusLobby,
		currentRound: 1,
		totalRounds:  cfg.TotalRounds,
		roundLength:  cfg.RoundLength,
		wordsPerTurn: cfg.WordsPerTurn,
		teamScores:   TeamScores{NeonTurnIndex: -1, CyberTurnIndex: -1},
		playerScores: make(map[string]int),
		players:      make(map[string]*PlayerState),
		subs:         make(map[*ClientConn]string),
		rng:          rng,
		now:          time.Now,
	}
	if gameType == GamePlant {
		r.plant = &PlantState{
			Phase:       PlantDraft,
			Guesses:     map[string]string{},
			RoundScores: map[string]int{},
			Settings:    DefaultPlantSettings(),
		}
	}
	return r
}

func (r *Room) Code() string { return r.code }

// Join upserts a player into the room. The first player to join becomes
// the host. Re-joining with a known id keeps the existing record, so a
// reconnect never resets stats or team.
func (r *Room) Join(playerID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.players[playerID]; ok {
		if name != "" {
			p.Name = name
		}
		return
	}
	r.players[playerID] = &PlayerState{
		ID:       playerID,
		Name:     name,
		IsHost:   len(r.players) == 0,
		JoinedAt: r.now(),
	}
	r.appendSystemLocked(name + " joined the room")
	r.commitLocked()
}

// Attach registers a connection as a snapshot subscriber and sends it
// the current state. The player must have joined first.
func (r *Room) Attach(playerID string, cc *ClientConn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return ErrUnknownPlayer
	}
	r.subs[cc] = playerID
	r.sendStateLocked(cc, playerID)
	return nil
}

// Detach releases a subscription. A disappeared player keeps their seat;
// phase timers are owned by the room so a gone describer cannot stall it.
func (r *Room) Detach(cc *ClientConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, cc)
}

func (r *Room) JoinTeam(playerID string, team Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if team != TeamNeon && team != TeamCyber {
		return errors.New("unknown team")
	}
	p.Team = team
	r.commitLocked()
	return nil
}

// UpdateSetting changes a host-mutable option. Only allowed before the
// game starts.
func (r *Room) UpdateSetting(playerID, field string, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireHostLocked(playerID); err != nil {
		return err
	}
	if r.status != StatusLobby {
		return ErrInvalidPhase
	}
	if value < 1 {
		value = 1
	}

	switch field {
	case "total_rounds":
		r.totalRounds = clamp(value, 1, 20)
	case "round_length":
		r.roundLength = time.Duration(clamp(value, 10, 300)) * time.Second
	case "words_per_turn":
		r.wordsPerTurn = clamp(value, 5, 50)
	case "draft_time", "monologue_time", "grill_time", "huddle_time", "total_pot":
		if r.plant == nil {
			return errors.New("setting only applies to the plant")
		}
		v := clamp(value, 1, 600)
		switch field {
		case "draft_time":
			r.plant.Settings.DraftTime = v
		case "monologue_time":
			r.plant.Settings.MonologueTime = v
		case "grill_time":
			r.plant.Settings.GrillTime = v
		case "huddle_time":
			r.plant.Settings.HuddleTime = v
		case "total_pot":
			r.plant.Settings.TotalPot = v
		}
	default:
		return errors.New("unknown setting")
	}
	r.commitLocked()
	return nil
}

// StartGame moves the room out of the lobby. Host only.
func (r *Room) StartGame(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireHostLocked(playerID); err != nil {
		return err
	}
	if r.status != StatusLobby {
		return ErrInvalidPhase
	}
	if len(r.players) == 0 {
		return errors.New("need at least one player")
	}
	// Cipher and wavelength rotate the describer through team rosters;
	// with both rosters empty there is nobody to hand the turn to.
	if r.gameType != GamePlant &&
		len(r.teamPlayersLocked(TeamNeon)) == 0 && len(r.teamPlayersLocked(TeamCyber)) == 0 {
		return errors.New("at least one player must join a team")
	}

	switch r.gameType {
	case GamePlant:
		r.startPlantRoundLocked()
	case GameWavelength:
		r.startWavelengthGameLocked()
	default:
		r.startCipherGameLocked()
	}
	r.status = StatusPlaying
	r.commitLocked()
	return nil
}

// EndGame finishes a wavelength or plant session. Those variants have no
// round cap; the host decides when the session is over.
func (r *Room) EndGame(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireHostLocked(playerID); err != nil {
		return err
	}
	if r.status != StatusPlaying {
		return ErrInvalidPhase
	}
	r.finishLocked()
	r.commitLocked()
	return nil
}

// SendChat appends a chat message. In the word game a guesser's message
// is first matched against the unguessed words of the current turn.
func (r *Room) SendChat(playerID, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}

	if r.gameType == GameCipher && r.isActiveGuesserLocked(p) {
		r.handleGuessLocked(p, content)
		r.commitLocked()
		return nil
	}

	r.appendMessageLocked(MessageRecord{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Content:    content,
		Type:       MessageChat,
		Team:       p.Team,
	})
	r.commitLocked()
	return nil
}

// --- internals ---

func (r *Room) requireHostLocked(playerID string) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if !p.IsHost {
		return ErrNotHost
	}
	return nil
}

// teamPlayersLocked returns a team's members ordered by join time. Turn
// rotation indexes into this ordering, so it has to be stable.
func (r *Room) teamPlayersLocked(team Team) []*PlayerState {
	var out []*PlayerState
	for _, p := range r.players {
		if p.Team == team {
			out = append(out, p)
		}
	}
	sortPlayersByJoin(out)
	return out
}

func sortPlayersByJoin(ps []*PlayerState) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].JoinedAt.Equal(ps[j].JoinedAt) {
			return ps[i].ID < ps[j].ID
		}
		return ps[i].JoinedAt.Before(ps[j].JoinedAt)
	})
}

func (r *Room) isActiveGuesserLocked(p *PlayerState) bool {
	return r.status == StatusPlaying &&
		r.turnPhase == TurnPlaying &&
		p.Team == r.turnTeam &&
		p.ID != r.turnDescriber
}

func (r *Room) finishLocked() {
	r.status = StatusFinished
	r.clearTimerLocked()
}

// armTimerLocked schedules the phase deadline. The token guard makes a
// stale timer a no-op: only the most recently armed deadline may fire,
// so a phase can never be advanced twice for one logical timeout.
func (r *Room) armTimerLocked(d time.Duration) {
	r.turnEndTime = r.now().Add(d)
	r.timerToken++
	token := r.timerToken

	if r.phaseTimer != nil {
		r.phaseTimer.Stop()
	}
	r.phaseTimer = time.AfterFunc(d, func() {
		r.onPhaseTimeout(token)
	})
}

func (r *Room) clearTimerLocked() {
	r.turnEndTime = time.Time{}
	r.timerToken++
	if r.phaseTimer != nil {
		r.phaseTimer.Stop()
	}
}

func (r *Room) onPhaseTimeout(token int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token != r.timerToken || r.status != StatusPlaying {
		return
	}

	switch r.gameType {
	case GameCipher:
		if r.turnPhase == TurnPlaying {
			r.endTurnLocked()
		}
	case GameWavelength:
		if r.wavelength != nil && !r.wavelength.Revealed {
			r.revealLocked()
		}
	case GamePlant:
		r.plantTimeoutLocked()
	}
	r.commitLocked()
}

// commitLocked is the single exit point of every applied transition: it
// bumps the version, fans the canonical snapshot out to subscribers and
// hands the snapshot to the persistence hook.
func (r *Room) commitLocked() {
	r.version++
	r.broadcastStateLocked()
	r.persistLocked()
}

func (r *Room) persistLocked() {
	if r.onPersist == nil {
		return
	}
	r.onPersist(r.snapshotLocked())
}

func (r *Room) appendSystemLocked(content string) {
	r.appendMessageLocked(MessageRecord{Content: content, Type: MessageSystem})
}

func (r *Room) appendMessageLocked(msg MessageRecord) {
	msg.RoomCode = r.code
	msg.CreatedAt = r.now()
	if r.onMessage != nil {
		r.onMessage(msg)
	}
	r.broadcastLocked(Envelope{Type: "message", Payload: mustJSON(msg)})
}

func (r *Room) addStatsLocked(playerID string, delta PlayerStats) {
	p, ok := r.players[playerID]
	if !ok {
		return
	}
	p.Stats = p.Stats.Add(delta)
	if r.onStats != nil {
		r.onStats(playerID, delta)
	}
}

func (r *Room) sendStateLocked(cc *ClientConn, playerID string) {
	st := StatePayload{You: playerID, Room: r.snapshotLocked()}
	r.sendLocked(cc, Envelope{Type: "state", Payload: mustJSON(st)})
}

func (r *Room) broadcastStateLocked() {
	for cc, pid := range r.subs {
		r.sendStateLocked(cc, pid)
	}
}

func (r *Room) broadcastLocked(env Envelope) {
	for cc := range r.subs {
		r.sendLocked(cc, env)
	}
}

func (r *Room) sendLocked(cc *ClientConn, env Envelope) {
	if cc == nil {
		return
	}
	b, _ := json.Marshal(env)
	select {
	case cc.send <- b:
	default:
		// slow reader: drop rather than block the arbiter
	}
}

func (r *Room) SendErrorTo(cc *ClientConn, code, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sendLocked(cc, Envelope{
		Type:    "error",
		Payload: mustJSON(ErrorPayload{Code: code, Message: message}),
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
