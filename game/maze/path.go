package maze

import "fmt"

// HasPath reports whether goal can be reached from start by 4-connected
// steps over non-Wall cells.
func HasPath(m *Maze, start, goal Position) bool {
	if m == nil || !m.InBound(start) || !m.InBound(goal) {
		return false
	}

	visited := make(map[Position]struct{})
	stack := []Position{start}

	for len(stack) > 0 {
		cell := pop(&stack)
		if cell == goal {
			return true
		}

		if _, seen := visited[cell]; seen {
			continue
		}
		visited[cell] = struct{}{}

		for _, nbr := range m.neighbors(cell) {
			if m.At(nbr) != Wall {
				stack = append(stack, nbr)
			}
		}
	}

	return false
}

// Acquire generates mazes until one has a path from Start to its goal.
// It returns the maze and the number of attempts it took. When maxAttempts
// is not positive DefaultMaxAttempts is used.
func Acquire(size int, rng Rand, maxAttempts int) (*Maze, int, error) {
	return acquire(size, rng, maxAttempts, func(m *Maze) bool {
		return HasPath(m, Start, m.Goal())
	})
}

func acquire(size int, rng Rand, maxAttempts int, solvable func(*Maze) bool) (*Maze, int, error) {
	if size < MinSize {
		return nil, 0, fmt.Errorf("%w: %d (minimum %d)", ErrInvalidSize, size, MinSize)
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if rng == nil {
		rng = NewRand()
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		m, err := Generate(size, rng)
		if err != nil {
			return nil, attempt, err
		}

		m.set(m.Goal(), Goal)
		if solvable(m) {
			return m, attempt, nil
		}
	}

	return nil, maxAttempts, fmt.Errorf("%w: no solvable %dx%d maze after %d attempts", ErrMazeGenerationFailed, size, size, maxAttempts)
}

// pop removes and returns the last element of a stack of positions.
func pop(s *[]Position) Position {
	lastIndex := len(*s) - 1
	popped := (*s)[lastIndex]
	*s = (*s)[:lastIndex]
	return popped
}
