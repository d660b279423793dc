package i

import (
	"context"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/game"
	"github.com/lmoura00/JogoLabirinto/identity"
)

// PlayerRepo defines the interface for player persistence operations.
type PlayerRepo interface {
	// Save inserts or updates a player in the repository.
	// A different player holding the same username is a conflict.
	Save(ctx context.Context, player *identity.Player) error

	// ByID retrieves a player by their unique ID.
	// Returns an error if the player is not found or in case of an unexpected error.
	ByID(ctx context.Context, id uuid.UUID) (*identity.Player, error)

	// ByUsername retrieves a player by their username.
	// Returns an error if the player is not found or in case of an unexpected error.
	ByUsername(ctx context.Context, username string) (*identity.Player, error)
}

// ProgressStore persists the level trail of each player.
type ProgressStore interface {
	// Load returns the stored progress. A player with nothing stored is at
	// the first level with no scores.
	Load(ctx context.Context, playerID uuid.UUID) (*game.Progress, error)

	// RecordCompletion keeps the best score of the completed level and moves
	// the current level to the next one.
	RecordCompletion(ctx context.Context, playerID uuid.UUID, c game.Completion) error

	// Reset clears the scores and returns the player to the first level.
	Reset(ctx context.Context, playerID uuid.UUID) error
}
