package service

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/chainreaction-backend/internal/chainreaction"
	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newBotGame(rows, cols int, difficulty string) *entity.Game {
	game := entity.NewGame("g1", chainreaction.NewGrid(rows, cols), entity.Player{ID: "p1", Kind: entity.KindHuman}, 2, testTime)
	game.AddPlayer(entity.NewBotPlayer("g1", difficulty), testTime)
	game.CurrentPlayerIndex = 1

	return game
}

func TestBotService_ChooseMove(t *testing.T) {
	bot := NewBotService()

	t.Run("Easy bot plays a legal cell", func(t *testing.T) {
		// Given: the human holds most of a 3x3 board
		game := newBotGame(3, 3, entity.EasyDifficulty)
		for y := range 3 {
			for x := range 3 {
				if x != 2 || y != 2 {
					game.Grid[y][x].AtomCount = 1
					game.Grid[y][x].OwnerID = "p1"
				}
			}
		}

		for range 20 {
			// When: the bot chooses
			pos, err := bot.ChooseMove(game, "bot:g1")

			// Then: it picks the only free cell
			require.NoError(t, err)
			assert.Equal(t, entity.Position{X: 2, Y: 2}, pos)
		}
	})

	t.Run("Hard bot takes a winning move", func(t *testing.T) {
		// Given: the human has one atom next to a full corner of the bot
		game := newBotGame(3, 3, entity.HardDifficulty)
		game.TurnNumber = 3
		game.Grid[2][2].AtomCount = 1
		game.Grid[2][2].OwnerID = "bot:g1"
		game.Grid[2][1].AtomCount = 1
		game.Grid[2][1].OwnerID = "p1"

		// When: the bot chooses
		pos, err := bot.ChooseMove(game, "bot:g1")

		// Then: it overloads the corner and conquers the human's last cell
		require.NoError(t, err)
		assert.Equal(t, entity.Position{X: 2, Y: 2}, pos)
	})

	t.Run("Hard bot prefers capturing atoms", func(t *testing.T) {
		// Given: the human holds two cells so no single move wins
		game := newBotGame(4, 4, entity.HardDifficulty)
		game.TurnNumber = 3
		game.Grid[0][2].AtomCount = 1
		game.Grid[0][2].OwnerID = "p1"
		game.Grid[3][0].AtomCount = 1
		game.Grid[3][0].OwnerID = "p1"
		game.Grid[0][3].AtomCount = 1
		game.Grid[0][3].OwnerID = "bot:g1"

		// When: the bot chooses
		pos, err := bot.ChooseMove(game, "bot:g1")

		// Then: the corner explosion that captures a cell beats a quiet move
		require.NoError(t, err)
		assert.Equal(t, entity.Position{X: 3, Y: 0}, pos)
	})

	t.Run("Hard bot breaks ties in row-major order", func(t *testing.T) {
		// Given: an empty board, where every quiet move scores the same
		game := newBotGame(3, 3, entity.HardDifficulty)

		pos, err := bot.ChooseMove(game, "bot:g1")

		require.NoError(t, err)
		assert.Equal(t, entity.Position{X: 0, Y: 0}, pos)
	})

	t.Run("No legal cell", func(t *testing.T) {
		// Given: the human owns every cell
		game := newBotGame(2, 2, entity.EasyDifficulty)
		for y := range 2 {
			for x := range 2 {
				game.Grid[y][x].AtomCount = 1
				game.Grid[y][x].OwnerID = "p1"
			}
		}

		_, err := bot.ChooseMove(game, "bot:g1")

		require.ErrorIs(t, err, ErrNoAvailableMoves)
	})

	t.Run("Human player is not a bot", func(t *testing.T) {
		game := newBotGame(3, 3, entity.EasyDifficulty)

		_, err := bot.ChooseMove(game, "p1")

		require.ErrorIs(t, err, ErrBotNotFound)
	})
}
