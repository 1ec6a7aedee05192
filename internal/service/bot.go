package service

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/chainreaction-backend/internal/chainreaction"
	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	// ChooseMove picks a cell for playerID according to its difficulty.
	ChooseMove(game *entity.Game, playerID string) (entity.Position, error)
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

func (that *botService) ChooseMove(game *entity.Game, playerID string) (entity.Position, error) {
	index := game.PlayerIndex(playerID)
	if index < 0 || !game.Players[index].IsBot() {
		return entity.Position{}, ErrBotNotFound
	}

	availableCells := chainreaction.LegalMoves(game, playerID)
	if len(availableCells) == 0 {
		return entity.Position{}, ErrNoAvailableMoves
	}

	if game.Players[index].Difficulty == entity.HardDifficulty {
		return greedyMove(game, playerID, availableCells), nil
	}

	return availableCells[rand.Intn(len(availableCells))], nil //nolint: gosec // it's ok
}

// greedyMove looks one move ahead. A winning cell is taken at once, otherwise
// the cell with the best atom lead wins, the first one in row-major order on ties.
func greedyMove(game *entity.Game, playerID string, availableCells []entity.Position) entity.Position {
	best := availableCells[0]
	bestScore := 0

	for i, cell := range availableCells {
		next, outcome := chainreaction.ApplyMove(game, entity.Move{PlayerID: playerID, X: cell.X, Y: cell.Y}, time.Time{})
		if outcome.WinnerID == playerID {
			return cell
		}

		own := next.Grid.AtomsOf(playerID)
		score := own - (next.Grid.TotalAtoms() - own)

		if i == 0 || score > bestScore {
			best = cell
			bestScore = score
		}
	}

	return best
}
