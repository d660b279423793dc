package game

import (
	"maps"
	"slices"
)

// FirstLevel is the level a new or reset player starts at.
const FirstLevel = 1

// Progress is a player's trail through the levels: the level to continue at
// and the best score recorded for each completed level.
type Progress struct {
	CurrentLevel int         `json:"currentLevel"`
	Scores       map[int]int `json:"scores"`
}

// NewProgress returns the progress of a player who has not completed any level.
func NewProgress() *Progress {
	return &Progress{CurrentLevel: FirstLevel, Scores: map[int]int{}}
}

// Record applies a completion: the level's best score is kept and the
// current level moves to the one after the completed level.
func (p *Progress) Record(c Completion) {
	if p.Scores == nil {
		p.Scores = map[int]int{}
	}
	if best, ok := p.Scores[c.Level]; !ok || c.Score > best {
		p.Scores[c.Level] = c.Score
	}
	p.CurrentLevel = c.Level + 1
}

// TotalScore sums the best scores of all completed levels.
func (p *Progress) TotalScore() int {
	total := 0
	for _, score := range p.Scores {
		total += score
	}
	return total
}

// Levels returns the completed levels in ascending order.
func (p *Progress) Levels() []int {
	return slices.Sorted(maps.Keys(p.Scores))
}

// Clone returns a deep copy.
func (p *Progress) Clone() *Progress {
	return &Progress{CurrentLevel: p.CurrentLevel, Scores: maps.Clone(p.Scores)}
}
