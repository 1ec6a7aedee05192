package chainreaction

import "github.com/rocketscienceinc/chainreaction-backend/internal/entity"

// MaxPasses caps how many scan passes Resolve runs before giving up.
const MaxPasses = 1000

// Resolution is the settled grid together with what it took to get there.
type Resolution struct {
	Grid       entity.Grid
	Passes     int
	Explosions int
	// Settled is false only when MaxPasses was reached with critical cells left.
	Settled bool
}

// Resolve runs chain reactions on a copy of grid until no cell is critical.
// Every neighbour hit by an explosion is conquered by triggeringPlayerID.
func Resolve(grid entity.Grid, triggeringPlayerID string) Resolution {
	next := grid.Clone()
	rows, cols := next.Rows(), next.Cols()
	result := Resolution{Grid: next}

	for result.Passes < MaxPasses {
		critical := criticalCells(next)
		if len(critical) == 0 {
			result.Settled = true
			return result
		}

		result.Passes++
		for _, pos := range critical {
			explode(next, pos, rows, cols, triggeringPlayerID)
			result.Explosions++
		}
	}

	result.Settled = len(criticalCells(next)) == 0

	return result
}

func criticalCells(grid entity.Grid) []entity.Position {
	var critical []entity.Position
	for y, row := range grid {
		for x, cell := range row {
			if cell.IsCritical() {
				critical = append(critical, entity.Position{X: x, Y: y})
			}
		}
	}

	return critical
}

func explode(grid entity.Grid, pos entity.Position, rows, cols int, triggeringPlayerID string) {
	neighbors := Neighbors(pos.X, pos.Y, rows, cols)

	source := &grid[pos.Y][pos.X]
	source.AtomCount -= len(neighbors)
	if source.AtomCount <= 0 {
		source.AtomCount = 0
		source.OwnerID = ""
	}

	for _, n := range neighbors {
		cell := &grid[n.Y][n.X]
		cell.AtomCount++
		cell.OwnerID = triggeringPlayerID
	}
}
