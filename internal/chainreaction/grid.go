// Package chainreaction implements the rules of Chain Reaction: cell
// capacities, move validation, explosion resolution and win detection.
//
// Every function is pure. Inputs are never mutated and results never share
// memory with them, so any number of goroutines may call into the package
// without coordination.
package chainreaction

import "github.com/rocketscienceinc/chainreaction-backend/internal/entity"

// CapacityOf returns how many atoms the cell at (x, y) holds before it
// becomes critical: 1 in a corner, 2 on a border, 3 inside.
func CapacityOf(x, y, rows, cols int) int {
	edgeX := x == 0 || x == cols-1
	edgeY := y == 0 || y == rows-1

	switch {
	case edgeX && edgeY:
		return 1
	case edgeX || edgeY:
		return 2
	default:
		return 3
	}
}

// NewGrid builds an empty rows x cols grid.
func NewGrid(rows, cols int) entity.Grid {
	grid := make(entity.Grid, rows)
	for y := range rows {
		row := make([]entity.Cell, cols)
		for x := range cols {
			row[x] = entity.Cell{
				X:        x,
				Y:        y,
				Capacity: CapacityOf(x, y, rows, cols),
			}
		}
		grid[y] = row
	}

	return grid
}

// Neighbors returns the orthogonal neighbours of (x, y) in the order up,
// right, down, left.
func Neighbors(x, y, rows, cols int) []entity.Position {
	neighbors := make([]entity.Position, 0, 4)

	if y > 0 {
		neighbors = append(neighbors, entity.Position{X: x, Y: y - 1})
	}
	if x < cols-1 {
		neighbors = append(neighbors, entity.Position{X: x + 1, Y: y})
	}
	if y < rows-1 {
		neighbors = append(neighbors, entity.Position{X: x, Y: y + 1})
	}
	if x > 0 {
		neighbors = append(neighbors, entity.Position{X: x - 1, Y: y})
	}

	return neighbors
}
