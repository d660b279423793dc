// Package levelapi exposes maze sessions and player progress over HTTP.
package levelapi

import (
	"time"

	"github.com/lmoura00/JogoLabirinto/game"
	"github.com/lmoura00/JogoLabirinto/game/maze"
)

// StartRequest starts a level. A zero or absent level continues at the
// player's stored current level.
type StartRequest struct {
	Level int `json:"level"`
}

// MoveRequest carries one directional move.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// CompletionResponse describes a finished level.
type CompletionResponse struct {
	Level          int     `json:"level"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
	Score          int     `json:"score"`
}

// SessionResponse is the drawable state of a session. Grid cells use the
// numeric cell encoding: 0 open, 1 wall, 2 goal.
type SessionResponse struct {
	ID         string              `json:"id"`
	Level      int                 `json:"level"`
	Size       int                 `json:"size"`
	Grid       [][]maze.Cell       `json:"grid"`
	Position   maze.Position       `json:"position"`
	Goal       maze.Position       `json:"goal"`
	State      string              `json:"state"`
	Moves      int                 `json:"moves"`
	StartedAt  time.Time           `json:"startedAt"`
	Completion *CompletionResponse `json:"completion,omitempty"`
}

// LevelScore is the best score of one completed level.
type LevelScore struct {
	Level int `json:"level"`
	Score int `json:"score"`
}

// ProgressResponse is the player's trail through the levels.
type ProgressResponse struct {
	CurrentLevel int          `json:"currentLevel"`
	Scores       []LevelScore `json:"scores"`
	TotalScore   int          `json:"totalScore"`
}

func newCompletionResponse(c *game.Completion) *CompletionResponse {
	if c == nil {
		return nil
	}
	return &CompletionResponse{
		Level:          c.Level,
		ElapsedSeconds: c.ElapsedSeconds(),
		Score:          c.Score,
	}
}

func newSessionResponse(s *game.Session) *SessionResponse {
	m := s.Maze()
	return &SessionResponse{
		ID:         s.ID().String(),
		Level:      s.Level(),
		Size:       m.Size(),
		Grid:       m.Grid(),
		Position:   s.Position(),
		Goal:       m.Goal(),
		State:      s.State().String(),
		Moves:      s.Moves(),
		StartedAt:  s.StartedAt(),
		Completion: newCompletionResponse(s.Completion()),
	}
}

func newProgressResponse(p *game.Progress) *ProgressResponse {
	scores := make([]LevelScore, 0, len(p.Scores))
	for _, level := range p.Levels() {
		scores = append(scores, LevelScore{Level: level, Score: p.Scores[level]})
	}
	return &ProgressResponse{
		CurrentLevel: p.CurrentLevel,
		Scores:       scores,
		TotalScore:   p.TotalScore(),
	}
}
