package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

// RoomService keeps the live rooms in memory and restores evicted ones
// from persistent storage (Redis). A room loaded back into memory picks
// up fresh hooks and, when a phase deadline survived the restart, a
// fresh timer for it.
type RoomService struct {
	mu sync.Mutex
	in map[string]*Room

	cfg     Config
	persist RoomPersistence
	log     *slog.Logger

	onMessage func(MessageRecord)
	onStats   func(roomCode, playerID string, delta PlayerStats)
}

func NewRoomService(cfg Config, persist RoomPersistence, log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &RoomService{
		in:      make(map[string]*Room),
		cfg:     cfg,
		persist: persist,
		log:     log,
	}
}

// SetMessageHook installs the sink that receives every appended room
// message (for the Postgres transcript).
func (s *RoomService) SetMessageHook(fn func(MessageRecord)) { s.onMessage = fn }

// SetStatsHook installs the sink that receives per-player stat deltas.
func (s *RoomService) SetStatsHook(fn func(roomCode, playerID string, delta PlayerStats)) {
	s.onStats = fn
}

// Create makes a new room under a fresh 4-letter code. Collisions with
// a live or persisted room get re-rolled.
func (s *RoomService) Create(ctx context.Context, gameType GameType) (*Room, error) {
	var code string
	for {
		code = randomRoomCode()
		_, err := s.GetOrLoad(ctx, code)
		if errors.Is(err, ErrRoomNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	r := NewRoom(code, gameType, s.cfg, nil)

	s.mu.Lock()
	s.in[code] = r
	s.mu.Unlock()

	s.wireHooks(r)

	r.mu.Lock()
	snap := r.snapshotLocked()
	r.mu.Unlock()
	if err := s.saveSnapshot(context.WithoutCancel(ctx), snap); err != nil {
		return nil, err
	}

	return r, nil
}

// GetOrLoad returns the live room for code, loading it from the
// snapshot store when it is not in memory. An unknown code is
// ErrRoomNotFound.
func (s *RoomService) GetOrLoad(ctx context.Context, code string) (*Room, error) {
	s.mu.Lock()
	r, ok := s.in[code]
	s.mu.Unlock()
	if ok {
		return r, nil
	}

	snap, found, err := s.persist.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRoomNotFound
	}

	room := NewRoom(code, snap.GameType, s.cfg, nil)
	room.mu.Lock()
	room.restoreLocked(snap)
	room.mu.Unlock()

	// Register before wiring hooks or arming a timer. When two loads
	// race, the loser is discarded inert: no hooks, no timer, nothing
	// that could fire a transition or persist over the live room.
	s.mu.Lock()
	if existing, ok := s.in[code]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.in[code] = room
	s.mu.Unlock()

	s.wireHooks(room)

	// A deadline that survived the restart gets a new timer; anything
	// already expired fires immediately through the same path.
	room.mu.Lock()
	if room.status == StatusPlaying && !room.turnEndTime.IsZero() {
		d := time.Until(room.turnEndTime)
		if d < 0 {
			d = 0
		}
		room.timerToken++
		token := room.timerToken
		if room.phaseTimer != nil {
			room.phaseTimer.Stop()
		}
		room.phaseTimer = time.AfterFunc(d, func() {
			room.onPhaseTimeout(token)
		})
	}
	room.mu.Unlock()

	return room, nil
}

func (s *RoomService) wireHooks(r *Room) {
	code := r.Code()

	// Snapshot saves run on a per-room worker so a slow store never
	// stalls the arbiter mutex. The single-slot mailbox coalesces:
	// a newer snapshot replaces a queued stale one.
	saves := make(chan RoomSnapshot, 1)
	go func() {
		for snap := range saves {
			if err := s.saveSnapshot(context.Background(), snap); err != nil {
				s.log.Error("room snapshot save failed", "room", code, "err", err)
			}
		}
	}()
	r.onPersist = func(snap RoomSnapshot) {
		for {
			select {
			case saves <- snap:
				return
			default:
				select {
				case <-saves:
				default:
				}
			}
		}
	}

	r.onMessage = func(msg MessageRecord) {
		if s.onMessage != nil {
			s.onMessage(msg)
		}
	}
	r.onStats = func(playerID string, delta PlayerStats) {
		if s.onStats != nil {
			s.onStats(code, playerID, delta)
		}
	}
}

// saveSnapshot writes through to Redis with a short retry; a room that
// cannot be persisted still keeps serving from memory.
func (s *RoomService) saveSnapshot(ctx context.Context, snap RoomSnapshot) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.persist.Save(ctx, snap.Code, snap); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomRoomCode() string {
	b := make([]byte, 4)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(b)
}
