package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
)

type MoveRepository interface {
	Save(ctx context.Context, record entity.MoveRecord) error
	ListByGameID(ctx context.Context, gameID string) ([]entity.MoveRecord, error)
}

type moveRepository struct {
	conn *sql.DB
}

func NewMoveRepository(conn *sql.DB) MoveRepository {
	return &moveRepository{
		conn: conn,
	}
}

func (that *moveRepository) Save(ctx context.Context, record entity.MoveRecord) error {
	query := `INSERT INTO game_moves (game_id, move_number, player_id, x, y, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		record.GameID, record.MoveNumber, record.PlayerID, record.X, record.Y, record.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("can't save move %d of game %s: %w", record.MoveNumber, record.GameID, err)
	}

	return nil
}

func (that *moveRepository) ListByGameID(ctx context.Context, gameID string) ([]entity.MoveRecord, error) {
	query := `SELECT game_id, move_number, player_id, x, y, created_at FROM game_moves WHERE game_id = ? ORDER BY move_number`

	rows, err := that.conn.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("can't list moves: %w", err)
	}
	defer rows.Close()

	records := make([]entity.MoveRecord, 0)
	for rows.Next() {
		var (
			record    entity.MoveRecord
			createdAt int64
		)

		if err = rows.Scan(&record.GameID, &record.MoveNumber, &record.PlayerID, &record.X, &record.Y, &createdAt); err != nil {
			return nil, fmt.Errorf("can't scan move: %w", err)
		}

		record.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't iterate moves: %w", err)
	}

	return records, nil
}
