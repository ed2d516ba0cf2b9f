package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"example.com/cipher/internal/store"
)

type HistoryHandler struct {
	Messages *store.MessageStore
}

// Recent serves the tail of a room's transcript so a reconnecting
// client can backfill chat before live frames arrive.
// GET /api/history/{code}?limit=50
func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	code := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/api/history/"))
	if code == "" || strings.Contains(code, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", "bad room code")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be 1..200")
			return
		}
		limit = n
	}

	msgs, err := h.Messages.Recent(r.Context(), code, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to load messages")
		return
	}

	out := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, map[string]any{
			"id":         m.ID,
			"roomCode":   m.RoomCode,
			"playerId":   m.PlayerID,
			"playerName": m.PlayerName,
			"content":    m.Content,
			"type":       m.Type,
			"team":       m.Team,
			"createdAt":  m.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}
