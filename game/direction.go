package game

import (
	"fmt"
	"strings"

	"github.com/lmoura00/JogoLabirinto/game/maze"
)

// Direction is one of the four moves a player can issue.
type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

var (
	// Directions lists every valid direction.
	Directions = []Direction{Up, Down, Left, Right}

	directionNames = map[string]Direction{
		"up":    Up,
		"down":  Down,
		"left":  Left,
		"right": Right,
	}

	directionOffsets = map[Direction]maze.Position{
		Up:    {X: 0, Y: -1},
		Down:  {X: 0, Y: 1},
		Left:  {X: -1, Y: 0},
		Right: {X: 1, Y: 0},
	}
)

// ParseDirection converts a case-insensitive direction name into a Direction.
func ParseDirection(s string) (Direction, error) {
	d, ok := directionNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Offset returns the unit step of the direction and whether it is valid.
func (d Direction) Offset() (maze.Position, bool) {
	offset, ok := directionOffsets[d]
	return offset, ok
}
