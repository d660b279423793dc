// Package progress provides ProgressStore implementations backed by memory
// and by Redis.
package progress

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/game"
	"github.com/lmoura00/JogoLabirinto/service/i"
)

// MemoryStore keeps progress in process memory. State is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[uuid.UUID]*game.Progress
}

var _ i.ProgressStore = &MemoryStore{}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[uuid.UUID]*game.Progress)}
}

// Load returns a copy of the stored progress.
func (s *MemoryStore) Load(_ context.Context, playerID uuid.UUID) (*game.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.players[playerID]; ok {
		return p.Clone(), nil
	}
	return game.NewProgress(), nil
}

// RecordCompletion applies the completion to the player's progress.
func (s *MemoryStore) RecordCompletion(_ context.Context, playerID uuid.UUID, c game.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		p = game.NewProgress()
		s.players[playerID] = p
	}
	p.Record(c)
	return nil
}

// Reset forgets the player's progress.
func (s *MemoryStore) Reset(_ context.Context, playerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.players, playerID)
	return nil
}
