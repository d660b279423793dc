package maze

import (
	"fmt"
	"math/rand"
	"slices"
	"time"
)

// Rand is the source of randomness used to pick frontier cells.
// *rand.Rand satisfies it, so tests can pass a seeded source.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a Rand seeded from the current time.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Generate carves a size x size maze by randomized frontier growth.
//
// Carving starts at (1,1). A frontier cell is carved only when exactly one of
// its neighbors is already Open, which keeps the carved region tree-like.
// The outer ring is sealed afterwards. Generate neither stamps the goal nor
// retries; see Acquire for that.
func Generate(size int, rng Rand) (*Maze, error) {
	if size < MinSize {
		return nil, fmt.Errorf("%w: %d (minimum %d)", ErrInvalidSize, size, MinSize)
	}
	if rng == nil {
		rng = NewRand()
	}

	m, err := New(size)
	if err != nil {
		return nil, err
	}

	m.set(Start, Open)
	frontier := m.neighbors(Start)

	for len(frontier) > 0 {
		i := rng.Intn(len(frontier))
		cell := frontier[i]
		frontier = slices.Delete(frontier, i, i+1)

		if m.openNeighbors(cell) != 1 {
			continue
		}

		m.set(cell, Open)
		for _, nbr := range m.neighbors(cell) {
			if m.At(nbr) == Wall {
				frontier = append(frontier, nbr)
			}
		}
	}

	m.sealBorder()
	return m, nil
}

// openNeighbors counts the in-bound Open neighbors of pos.
func (m *Maze) openNeighbors(pos Position) int {
	count := 0
	for _, nbr := range m.neighbors(pos) {
		if m.At(nbr) == Open {
			count++
		}
	}
	return count
}
