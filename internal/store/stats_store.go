package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerStats struct {
	UserID          string
	WordsGuessed    int
	TotalPoints     int
	DescriberPoints int
	UpdatedAt       time.Time
}

type StatsStore struct {
	db *pgxpool.Pool
}

func NewStatsStore(db *pgxpool.Pool) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) InitForUser(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_stats (user_id, words_guessed, total_points, describer_points)
		VALUES ($1, 0, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

// AddDelta accumulates counters earned during play. The upsert keeps
// guest ids working without a prior InitForUser.
func (s *StatsStore) AddDelta(ctx context.Context, userID string, wordsGuessed, totalPoints, describerPoints int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_stats (user_id, words_guessed, total_points, describer_points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			words_guessed    = player_stats.words_guessed + EXCLUDED.words_guessed,
			total_points     = player_stats.total_points + EXCLUDED.total_points,
			describer_points = player_stats.describer_points + EXCLUDED.describer_points,
			updated_at       = now()
	`, userID, wordsGuessed, totalPoints, describerPoints)
	return err
}

func (s *StatsStore) Get(ctx context.Context, userID string) (PlayerStats, error) {
	var st PlayerStats
	err := s.db.QueryRow(ctx, `
		SELECT user_id, words_guessed, total_points, describer_points, updated_at
		FROM player_stats
		WHERE user_id=$1
	`, userID).Scan(&st.UserID, &st.WordsGuessed, &st.TotalPoints, &st.DescriberPoints, &st.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// no row yet just means zero counters
		return PlayerStats{UserID: userID}, nil
	}
	if err != nil {
		return PlayerStats{}, err
	}
	return st, nil
}
