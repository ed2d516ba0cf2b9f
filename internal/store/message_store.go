package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Message struct {
	ID         int64
	RoomCode   string
	PlayerID   string
	PlayerName string
	Content    string
	Type       string
	Team       string
	CreatedAt  time.Time
}

// MessageStore is the append-only room transcript. The word game reads
// guesses out of chat, so losing messages means losing the guess log.
type MessageStore struct {
	db *pgxpool.Pool
}

func NewMessageStore(db *pgxpool.Pool) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Append(ctx context.Context, m Message) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO messages (room_code, player_id, player_name, content, type, team, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.RoomCode, m.PlayerID, m.PlayerName, m.Content, m.Type, m.Team, m.CreatedAt)
	return err
}

// Recent returns the newest messages for a room in chronological order.
func (s *MessageStore) Recent(ctx context.Context, roomCode string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, room_code, player_id, player_name, content, type, team, created_at
		FROM (
			SELECT id, room_code, player_id, player_name, content, type, team, created_at
			FROM messages
			WHERE room_code = $1
			ORDER BY id DESC
			LIMIT $2
		) t
		ORDER BY id ASC
	`, roomCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.PlayerID, &m.PlayerName, &m.Content, &m.Type, &m.Team, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
