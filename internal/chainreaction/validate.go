package chainreaction

import (
	"fmt"

	"github.com/rocketscienceinc/chainreaction-backend/internal/apperror"
	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
)

// ValidateMove checks a move against the game without touching it. Checks
// run in a fixed order and the first failure wins: bounds, game over, turn,
// cell ownership.
func ValidateMove(game *entity.Game, move entity.Move) error {
	if !game.Grid.InBounds(move.X, move.Y) {
		return fmt.Errorf("%w: (%d, %d) on %dx%d grid", apperror.ErrOutOfBounds, move.X, move.Y, game.Grid.Rows(), game.Grid.Cols())
	}

	if game.IsGameOver {
		return apperror.ErrGameOver
	}

	current, ok := game.CurrentPlayer()
	if !ok || current.ID != move.PlayerID {
		return apperror.ErrNotYourTurn
	}

	cell := game.Grid[move.Y][move.X]
	if !cell.IsEmpty() && cell.OwnerID != move.PlayerID {
		return apperror.ErrCellOwnedByOpponent
	}

	return nil
}

// LegalMoves lists every cell playerID could play, in row-major order.
func LegalMoves(game *entity.Game, playerID string) []entity.Position {
	moves := make([]entity.Position, 0, game.Grid.Rows()*game.Grid.Cols())

	for y, row := range game.Grid {
		for x := range row {
			if ValidateMove(game, entity.Move{PlayerID: playerID, X: x, Y: y}) == nil {
				moves = append(moves, entity.Position{X: x, Y: y})
			}
		}
	}

	return moves
}
