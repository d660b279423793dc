/*
Package maze provides tools for creating and validating square grid mazes.

A maze is a grid of Wall, Open and Goal cells. The outer ring is always Wall,
the start cell (1,1) is always Open and a single Goal sits at (size-2,size-2).

The package includes randomized frontier carving, depth-first reachability
checks and the bounded generate-and-validate loop used to hand out mazes that
are always solvable. Utility functions cover bounds checks, neighbor lookup
and a plain text rendering of the grid.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MinSize is the smallest grid dimension accepted by the generator.
	MinSize = 5

	// DefaultMaxAttempts bounds the generate-and-validate loop.
	DefaultMaxAttempts = 1000

	// maxGrowthLevel is the level after which maze size stops growing.
	maxGrowthLevel = 5
)

var (
	// Start is the fixed start position of every maze.
	Start = Position{X: 1, Y: 1}

	// offsets lists the 4-connected neighbor offsets in a fixed order so that
	// seeded generation is reproducible.
	offsets = [4]Position{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
)

// Maze errors.
var (
	ErrInvalidSize          = errors.New("invalid maze size")
	ErrInvalidLevel         = errors.New("invalid level")
	ErrMazeGenerationFailed = errors.New("maze generation failed")
	ErrMalformedRows        = errors.New("malformed maze rows")
)

// Maze is a square grid of cells indexed as cells[y][x].
type Maze struct {
	size  int      // Number of rows and columns
	cells [][]Cell // 2D grid of cells forming the maze
}

// New returns a size x size maze where every cell is a Wall.
func New(size int) (*Maze, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	cells := make([][]Cell, size)
	for y := range cells {
		cells[y] = make([]Cell, size)
		for x := range cells[y] {
			cells[y][x] = Wall
		}
	}

	return &Maze{size: size, cells: cells}, nil
}

// FromRows builds a maze from its text rendering. Each row must have as many
// characters as there are rows; '#' is a Wall, 'G' a Goal and '.' or ' ' an
// Open cell.
func FromRows(rows []string) (*Maze, error) {
	m, err := New(len(rows))
	if err != nil {
		return nil, err
	}

	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != m.size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedRows, y, len(runes), m.size)
		}
		for x, r := range runes {
			switch r {
			case '#':
				m.cells[y][x] = Wall
			case 'G':
				m.cells[y][x] = Goal
			case '.', ' ':
				m.cells[y][x] = Open
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrMalformedRows, r, x, y)
			}
		}
	}

	return m, nil
}

// SizeForLevel derives the maze dimension for a level.
// Size grows by two per level and is clamped once the level exceeds 5.
func SizeForLevel(level int) (int, error) {
	if level < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	return MinSize + 2*min(level, maxGrowthLevel), nil
}

// GoalFor returns the goal position of a maze with the given dimension.
func GoalFor(size int) Position {
	return Position{X: size - 2, Y: size - 2}
}

// Size returns the number of rows (and columns) of the maze.
func (m *Maze) Size() int {
	return m.size
}

// Goal returns the goal position of the maze.
func (m *Maze) Goal() Position {
	return GoalFor(m.size)
}

// InBound reports whether pos lies inside the grid.
func (m *Maze) InBound(pos Position) bool {
	return pos.X >= 0 && pos.X < m.size && pos.Y >= 0 && pos.Y < m.size
}

// At returns the cell at pos. Positions outside the grid read as Wall.
func (m *Maze) At(pos Position) Cell {
	if !m.InBound(pos) {
		return Wall
	}
	return m.cells[pos.Y][pos.X]
}

// Grid returns a copy of the cells, indexed as grid[y][x].
func (m *Maze) Grid() [][]Cell {
	grid := make([][]Cell, m.size)
	for y := range m.cells {
		grid[y] = append([]Cell(nil), m.cells[y]...)
	}
	return grid
}

// Count returns how many cells hold the given value.
func (m *Maze) Count(c Cell) int {
	n := 0
	for _, row := range m.cells {
		for _, cell := range row {
			if cell == c {
				n++
			}
		}
	}
	return n
}

// set assigns a cell value; callers guarantee pos is in bounds.
func (m *Maze) set(pos Position, c Cell) {
	m.cells[pos.Y][pos.X] = c
}

// neighbors returns the in-bound 4-connected neighbors of pos.
func (m *Maze) neighbors(pos Position) []Position {
	result := make([]Position, 0, len(offsets))
	for _, delta := range offsets {
		nbr := pos.Add(delta)
		if m.InBound(nbr) {
			result = append(result, nbr)
		}
	}
	return result
}

// sealBorder forces the outer ring of the grid back to Wall.
func (m *Maze) sealBorder() {
	last := m.size - 1
	for i := 0; i < m.size; i++ {
		m.cells[0][i] = Wall
		m.cells[last][i] = Wall
		m.cells[i][0] = Wall
		m.cells[i][last] = Wall
	}
}

// String provides a textual representation of the maze, one line per row.
func (m *Maze) String() string {
	var output strings.Builder
	for y, row := range m.cells {
		for _, cell := range row {
			output.WriteRune(cell.Rune())
		}
		if y < m.size-1 {
			output.WriteByte('\n')
		}
	}
	return output.String()
}
