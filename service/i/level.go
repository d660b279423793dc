package i

import (
	"context"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/game"
)

// LevelService runs the maze sessions of all players.
type LevelService interface {
	// Start opens a session for level, or for the stored current level when
	// level is zero. Any session the player had open is discarded.
	Start(ctx context.Context, playerID uuid.UUID, level int) (*game.Session, error)

	// Session returns an open session owned by the player.
	Session(playerID, sessionID uuid.UUID) (*game.Session, error)

	// Move applies a move and persists the completion when the goal is reached.
	Move(ctx context.Context, playerID, sessionID uuid.UUID, dir game.Direction) (*game.Session, *game.Completion, error)

	// Progress returns the stored level trail.
	Progress(ctx context.Context, playerID uuid.UUID) (*game.Progress, error)

	// ResetProgress clears the stored trail and drops the open session.
	ResetProgress(ctx context.Context, playerID uuid.UUID) error
}
