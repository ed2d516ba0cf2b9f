package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"example.com/cipher/internal/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

// handleWS is the WebSocket entry into a room.
// Requires a JWT: /ws?room=ABCD&token=yyy
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.URL.Query().Get("room"))
	token := r.URL.Query().Get("token")

	if code == "" || token == "" {
		http.Error(w, "missing room or token", http.StatusBadRequest)
		return
	}

	claims, err := auth.Verify(s.jwtSecret, token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	playerID := claims.UserID
	playerName := claims.Name
	if playerName == "" {
		playerName = "player"
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

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	cc := &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}

	// writer loop
	go func() {
		ticker := time.NewTicker(25 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-cc.send:
				if !ok {
					return
				}
				_ = ws.WriteMessage(websocket.TextMessage, msg)
			case <-ticker.C:
				_ = ws.WriteMessage(websocket.PingMessage, []byte{})
			}
		}
	}()

	room.Join(playerID, playerName)

	// backfill the transcript tail before live frames
	if s.history != nil {
		if msgs, err := s.history(r.Context(), code); err == nil && len(msgs) > 0 {
			b, _ := json.Marshal(Envelope{Type: "history", Payload: mustJSON(msgs)})
			select {
			case cc.send <- b:
			default:
			}
		}
	}

	if err := room.Attach(playerID, cc); err != nil {
		room.SendErrorTo(cc, "bad_input", err.Error())
		cc.Close()
		return
	}

	// reader loop
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			room.SendErrorTo(cc, "bad_json", "invalid json")
			continue
		}

		if err := s.dispatch(room, cc, playerID, env); err != nil {
			room.SendErrorTo(cc, "bad_input", err.Error())
		}
	}

	// disconnect
	room.Detach(cc)
	cc.Close()
}

// dispatch routes one incoming envelope to the room transition it names.
// Every rejected action comes back as an explicit error frame; nothing
// is silently dropped.
func (s *Server) dispatch(room *Room, cc *ClientConn, playerID string, env Envelope) error {
	switch env.Type {
	case "join_team":
		var p JoinTeamPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errBadPayload
		}
		return room.JoinTeam(playerID, p.Team)

	case "update_setting":
		var p UpdateSettingPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errBadPayload
		}
		return room.UpdateSetting(playerID, p.Field, p.Value)

	case "start_game":
		return room.StartGame(playerID)

	case "end_game":
		return room.EndGame(playerID)

	case "start_turn":
		return room.StartTurn(playerID)

	case "send_message":
		var p SendMessagePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errBadPayload
		}
		return room.SendChat(playerID, p.Content)

	case "word_guessed":
		var p WordGuessedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errBadPayload
		}
		return room.MarkWordGuessed(playerID, p.Index)

	case "set_dial":
		var p SetDialPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errBadPayload
		}
		return room.SetDial(playerID, p.Percent)

	case "reveal":
		return room.Reveal(playerID)

	case "next_round":
		return room.NextRound(playerID)

	case "pick_word":
		var p PickWordPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errBadPayload
		}
		return room.PickSecretWord(playerID, p.Word)

	case "submit_verdict":
		var p SubmitVerdictPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errBadPayload
		}
		return room.SubmitVerdict(playerID, p.Guess)

	default:
		room.SendErrorTo(cc, "unknown_type", "unknown message type")
		return nil
	}
}
