package entity

// Cell is a single square of the board. An empty cell has no owner.
type Cell struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	AtomCount int    `json:"atomCount"`
	OwnerID   string `json:"ownerId"`
	Capacity  int    `json:"capacity"`
}

func (that Cell) IsCritical() bool {
	return that.AtomCount > that.Capacity
}

func (that Cell) IsEmpty() bool {
	return that.OwnerID == ""
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is stored row-major: grid[y][x].
type Grid [][]Cell

func (that Grid) Rows() int {
	return len(that)
}

func (that Grid) Cols() int {
	if len(that) == 0 {
		return 0
	}

	return len(that[0])
}

func (that Grid) InBounds(x, y int) bool {
	return y >= 0 && y < that.Rows() && x >= 0 && x < that.Cols()
}

// Clone returns a copy that shares no memory with the receiver.
func (that Grid) Clone() Grid {
	if that == nil {
		return nil
	}

	clone := make(Grid, len(that))
	for y := range that {
		clone[y] = make([]Cell, len(that[y]))
		copy(clone[y], that[y])
	}

	return clone
}

// Owners returns the distinct owners present on the grid in row-major order
// of first appearance.
func (that Grid) Owners() []string {
	seen := make(map[string]struct{})
	owners := make([]string, 0, 2)

	for _, row := range that {
		for _, cell := range row {
			if cell.IsEmpty() {
				continue
			}
			if _, ok := seen[cell.OwnerID]; ok {
				continue
			}
			seen[cell.OwnerID] = struct{}{}
			owners = append(owners, cell.OwnerID)
		}
	}

	return owners
}

// AtomsOf sums the atoms held by the given player.
func (that Grid) AtomsOf(playerID string) int {
	total := 0
	for _, row := range that {
		for _, cell := range row {
			if cell.OwnerID == playerID {
				total += cell.AtomCount
			}
		}
	}

	return total
}

func (that Grid) TotalAtoms() int {
	total := 0
	for _, row := range that {
		for _, cell := range row {
			total += cell.AtomCount
		}
	}

	return total
}
