package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/chainreaction-backend/internal/apperror"
	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
)

// memoryGameRepo is an in-process store with the same compare-and-swap
// contract as the redis repository.
type memoryGameRepo struct {
	mu    sync.Mutex
	games map[string]*entity.Game
	swaps int

	// swapHook may fail the n-th swap before it is checked.
	swapHook func(n int) error
}

func newMemoryGameRepo() *memoryGameRepo {
	return &memoryGameRepo{games: make(map[string]*entity.Game)}
}

func (that *memoryGameRepo) Create(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; ok {
		return fmt.Errorf("%w: game %s already exists", apperror.ErrConflict, game.ID)
	}

	that.games[game.ID] = game.Clone()

	return nil
}

func (that *memoryGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: game %s", apperror.ErrNotFound, id)
	}

	return game.Clone(), nil
}

func (that *memoryGameRepo) CompareAndSwap(_ context.Context, game *entity.Game, expectedVersion uint64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.swaps++
	if that.swapHook != nil {
		if err := that.swapHook(that.swaps); err != nil {
			return err
		}
	}

	stored, ok := that.games[game.ID]
	if !ok {
		return fmt.Errorf("%w: game %s", apperror.ErrNotFound, game.ID)
	}

	if stored.Version != expectedVersion {
		return fmt.Errorf("%w: game %s is at version %d", apperror.ErrConflict, game.ID, stored.Version)
	}

	that.games[game.ID] = game.Clone()

	return nil
}

// put stores game as is, bypassing version checks.
func (that *memoryGameRepo) put(game *entity.Game) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = game.Clone()
}

// staleGameRepo always hands out the snapshot it was built with, like a
// reader that loaded just before a concurrent write landed.
type staleGameRepo struct {
	*memoryGameRepo
	snapshot *entity.Game
}

func (that *staleGameRepo) GetByID(_ context.Context, _ string) (*entity.Game, error) {
	return that.snapshot.Clone(), nil
}

type mockMoveRepo struct {
	mock.Mock
}

func (that *mockMoveRepo) Save(ctx context.Context, record entity.MoveRecord) error {
	args := that.Called(ctx, record)

	return args.Error(0)
}

func (that *mockMoveRepo) ListByGameID(ctx context.Context, gameID string) ([]entity.MoveRecord, error) {
	args := that.Called(ctx, gameID)

	records, _ := args.Get(0).([]entity.MoveRecord)

	return records, args.Error(1)
}

type mockStatsRepo struct {
	mock.Mock
}

func (that *mockStatsRepo) RecordResult(ctx context.Context, playerID string, won bool, at time.Time) error {
	args := that.Called(ctx, playerID, won, at)

	return args.Error(0)
}

func (that *mockStatsRepo) GetByPlayerID(ctx context.Context, playerID string) (*entity.PlayerStats, error) {
	args := that.Called(ctx, playerID)

	stats, _ := args.Get(0).(*entity.PlayerStats)

	return stats, args.Error(1)
}
