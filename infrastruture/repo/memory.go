package repo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/identity"
	"github.com/lmoura00/JogoLabirinto/service/i"
)

// MemoryPlayerRepo keeps players in process memory. State is lost on restart.
type MemoryPlayerRepo struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]identity.Player
	byUsername map[string]uuid.UUID
}

var _ i.PlayerRepo = &MemoryPlayerRepo{}

// NewMemoryPlayerRepo returns an empty MemoryPlayerRepo.
func NewMemoryPlayerRepo() *MemoryPlayerRepo {
	return &MemoryPlayerRepo{
		byID:       make(map[uuid.UUID]identity.Player),
		byUsername: make(map[string]uuid.UUID),
	}
}

// Save inserts or updates a player.
func (r *MemoryPlayerRepo) Save(_ context.Context, player *identity.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byUsername[player.Username]; ok && owner != player.ID {
		return ErrUsernameConflict
	}

	if prev, ok := r.byID[player.ID]; ok && prev.Username != player.Username {
		delete(r.byUsername, prev.Username)
	}
	r.byID[player.ID] = *player
	r.byUsername[player.Username] = player.ID
	return nil
}

// ByID retrieves a player by their ID.
func (r *MemoryPlayerRepo) ByID(_ context.Context, id uuid.UUID) (*identity.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.byID[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &player, nil
}

// ByUsername retrieves a player by their username.
func (r *MemoryPlayerRepo) ByUsername(_ context.Context, username string) (*identity.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	player := r.byID[id]
	return &player, nil
}
