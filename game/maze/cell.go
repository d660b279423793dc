package maze

// Cell is the content of a single grid position.
// The numeric values are part of the wire format and must not change.
type Cell int

const (
	Open Cell = 0 // Open is a walkable cell.
	Wall Cell = 1 // Wall blocks movement.
	Goal Cell = 2 // Goal is the walkable target cell of a maze.
)

// String returns a lowercase name for the cell.
func (c Cell) String() string {
	switch c {
	case Open:
		return "open"
	case Wall:
		return "wall"
	case Goal:
		return "goal"
	default:
		return "unknown"
	}
}

// Rune returns the character used by the text rendering of a maze.
func (c Cell) Rune() rune {
	switch c {
	case Wall:
		return '#'
	case Goal:
		return 'G'
	default:
		return '.'
	}
}

// Position represents the coordinates of a cell in the maze grid.
// X is the column index and Y the row index, both 0-based.
type Position struct {
	X int `json:"x"` // Column index of the cell
	Y int `json:"y"` // Row index of the cell
}

// Add returns the position shifted by the given offset.
func (p Position) Add(offset Position) Position {
	return Position{X: p.X + offset.X, Y: p.Y + offset.Y}
}
