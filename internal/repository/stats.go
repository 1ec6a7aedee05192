package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
)

type StatsRepository interface {
	// RecordResult counts one finished game for the player.
	RecordResult(ctx context.Context, playerID string, won bool, at time.Time) error
	// GetByPlayerID returns zero counters for a player with no finished games.
	GetByPlayerID(ctx context.Context, playerID string) (*entity.PlayerStats, error)
}

type statsRepository struct {
	conn *sql.DB
}

func NewStatsRepository(conn *sql.DB) StatsRepository {
	return &statsRepository{
		conn: conn,
	}
}

func (that *statsRepository) RecordResult(ctx context.Context, playerID string, won bool, at time.Time) error {
	query := `INSERT INTO player_stats (player_id, games_played, games_won, updated_at) VALUES (?, 1, ?, ?)
ON CONFLICT (player_id) DO UPDATE SET
    games_played = games_played + 1,
    games_won = games_won + excluded.games_won,
    updated_at = excluded.updated_at`

	wins := 0
	if won {
		wins = 1
	}

	_, err := that.conn.ExecContext(ctx, query, playerID, wins, at.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("can't record result for player %s: %w", playerID, err)
	}

	return nil
}

func (that *statsRepository) GetByPlayerID(ctx context.Context, playerID string) (*entity.PlayerStats, error) {
	query := `SELECT games_played, games_won, updated_at FROM player_stats WHERE player_id = ?`

	stats := entity.PlayerStats{PlayerID: playerID}

	var updatedAt int64

	err := that.conn.QueryRowContext(ctx, query, playerID).Scan(&stats.GamesPlayed, &stats.GamesWon, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't find stats: %w", err)
	}

	stats.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &stats, nil
}
