package chainreaction

import (
	"time"

	"github.com/rocketscienceinc/chainreaction-backend/internal/entity"
)

// Outcome describes what a single applied move did.
type Outcome struct {
	Resolution Resolution
	WinnerID   string
}

// ApplyMove returns the game after move is played at the given time. The move
// must already have passed ValidateMove. The input game is left untouched.
func ApplyMove(game *entity.Game, move entity.Move, at time.Time) (*entity.Game, Outcome) {
	next := game.Clone()

	placed := next.Grid.Clone()
	placed[move.Y][move.X].AtomCount++
	placed[move.Y][move.X].OwnerID = move.PlayerID

	resolution := Resolve(placed, move.PlayerID)
	next.Grid = resolution.Grid

	next.TurnNumber++
	next.TotalMoves++

	nextIndex := 0
	if len(next.Players) > 0 {
		nextIndex = (next.CurrentPlayerIndex + 1) % len(next.Players)
	}

	winnerID := CheckWinner(next.Grid, next.Players, next.TurnNumber)
	if winnerID != "" {
		ended := at
		next.IsGameOver = true
		next.WinnerID = winnerID
		next.Status = entity.StatusCompleted
		next.EndedAt = &ended
	} else {
		next.CurrentPlayerIndex = nextIndex
	}

	return next, Outcome{Resolution: resolution, WinnerID: winnerID}
}

// CheckWinner returns the id of the only player left on the grid, or "" when
// there is none yet. No one can win before every player has had a turn.
func CheckWinner(grid entity.Grid, players []entity.Player, turnNumber int) string {
	if turnNumber < max(2, len(players)) {
		return ""
	}

	owners := grid.Owners()
	if len(owners) != 1 {
		return ""
	}

	return owners[0]
}
