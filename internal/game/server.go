package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var errBadPayload = errors.New("invalid payload")

type Server struct {
	rooms     *RoomService
	jwtSecret []byte

	history func(ctx context.Context, code string) ([]MessageRecord, error)
}

func NewServer(rooms *RoomService, jwtSecret []byte) *Server {
	return &Server{
		rooms:     rooms,
		jwtSecret: jwtSecret,
	}
}

// SetHistory installs the transcript source used to backfill chat on
// connect.
func (s *Server) SetHistory(fn func(ctx context.Context, code string) ([]MessageRecord, error)) {
	s.history = fn
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/rooms", s.handleCreateRoom)
	mux.HandleFunc("/api/rooms/", s.handleGetRoom)
	mux.HandleFunc("/ws", s.handleWS)
}

type createRoomRequest struct {
	GameType GameType `json:"gameType"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	switch req.GameType {
	case GameCipher, GameWavelength, GamePlant:
	case "":
		req.GameType = GameCipher
	default:
		http.Error(w, "unknown game type", http.StatusBadRequest)
		return
	}

	room, err := s.rooms.Create(r.Context(), req.GameType)
	if err != nil {
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"roomCode": room.Code(),
		"gameType": string(req.GameType),
	})
}

// handleGetRoom returns the current snapshot of a room, so the lobby
// page can render before the socket is up.
// GET /api/rooms/{code}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	code := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/api/rooms/"))
	if code == "" || strings.Contains(code, "/") {
		http.Error(w, "bad room code", http.StatusBadRequest)
		return
	}

	room, err := s.rooms.GetOrLoad(r.Context(), code)
	if errors.Is(err, ErrRoomNotFound) {
		http.Error(w, ErrRoomNotFound.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, room.Snapshot())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
