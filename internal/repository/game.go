package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/chainreaction-backend/internal/apperror"
	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
)

type GameRepository interface {
	// Create stores a new game. It fails with apperror.ErrConflict if the id is taken.
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	// CompareAndSwap replaces the stored game only if its version still equals
	// expectedVersion, otherwise it fails with apperror.ErrConflict.
	CompareAndSwap(ctx context.Context, game *entity.Game, expectedVersion uint64) error
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository keeps games in redis. A positive ttl expires every game
// that long after creation. Updates keep the remaining ttl.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameKey(game.ID), gameJSON, that.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: game %s already exists", apperror.ErrConflict, game.ID)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: game %s", apperror.ErrNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return decodeGame(response)
}

func (that *dbGame) CompareAndSwap(ctx context.Context, game *entity.Game, expectedVersion uint64) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	key := gameKey(game.ID)

	swap := func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: game %s", apperror.ErrNotFound, game.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to get game by id: %w", err)
		}

		stored, err := decodeGame(response)
		if err != nil {
			return err
		}

		if stored.Version != expectedVersion {
			return fmt.Errorf("%w: game %s is at version %d, expected %d", apperror.ErrConflict, game.ID, stored.Version, expectedVersion)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetArgs(ctx, key, gameJSON, redis.SetArgs{KeepTTL: true})
			return nil
		})

		return err
	}

	err = that.client.Watch(ctx, swap, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: game %s changed during write", apperror.ErrConflict, game.ID)
	}

	if err != nil {
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func decodeGame(raw []byte) (*entity.Game, error) {
	var game entity.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}
