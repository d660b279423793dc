package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/game"
	"github.com/lmoura00/JogoLabirinto/game/maze"
	"github.com/lmoura00/JogoLabirinto/service/i"
	"github.com/rs/zerolog"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionForbidden = errors.New("session belongs to another player")
)

type sessionEntry struct {
	session *game.Session
	player  uuid.UUID
}

// LevelManager owns the open sessions of all players, at most one each, and
// writes completions through to the progress store.
type LevelManager struct {
	store           i.ProgressStore
	logger          zerolog.Logger
	maxAttempts     int
	clock           func() time.Time
	newRand         func() maze.Rand
	sessions        map[uuid.UUID]sessionEntry
	playerToSession map[uuid.UUID]uuid.UUID
	sync.RWMutex
}

var _ i.LevelService = &LevelManager{}

// LevelConfig holds the dependencies of a LevelManager.
type LevelConfig struct {
	Store       i.ProgressStore
	Logger      zerolog.Logger
	MaxAttempts int              // generation bound per level; 0 uses the maze default
	Clock       func() time.Time // session clock; defaults to time.Now
	NewRand     func() maze.Rand // random source per session; defaults to a time-seeded one
}

// NewLevelManager creates a LevelManager.
func NewLevelManager(c LevelConfig) (*LevelManager, error) {
	if c.Store == nil {
		return nil, errors.New("level manager requires a progress store")
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.NewRand == nil {
		c.NewRand = maze.NewRand
	}

	return &LevelManager{
		store:           c.Store,
		logger:          c.Logger,
		maxAttempts:     c.MaxAttempts,
		clock:           c.Clock,
		newRand:         c.NewRand,
		sessions:        make(map[uuid.UUID]sessionEntry),
		playerToSession: make(map[uuid.UUID]uuid.UUID),
	}, nil
}

// Start opens a session for level, or for the stored current level when level
// is zero. The player's previous session, if any, is discarded.
func (l *LevelManager) Start(ctx context.Context, playerID uuid.UUID, level int) (*game.Session, error) {
	if level == 0 {
		progress, err := l.store.Load(ctx, playerID)
		if err != nil {
			l.logger.Error().Err(err).Str("player", playerID.String()).Msg("loading progress")
			return nil, fmt.Errorf("loading progress: %w", err)
		}
		level = progress.CurrentLevel
	}

	session, err := game.StartLevel(level,
		game.WithRand(l.newRand()),
		game.WithClock(l.clock),
		game.WithMaxAttempts(l.maxAttempts),
	)
	if err != nil {
		if errors.Is(err, maze.ErrMazeGenerationFailed) {
			l.logger.Error().Err(err).Int("mazeLevel", level).Msg("maze generation failed")
		}
		return nil, err
	}

	l.Lock()
	if prev, ok := l.playerToSession[playerID]; ok {
		delete(l.sessions, prev)
	}
	l.sessions[session.ID()] = sessionEntry{session: session, player: playerID}
	l.playerToSession[playerID] = session.ID()
	l.Unlock()

	l.logger.Info().
		Str("player", playerID.String()).
		Str("session", session.ID().String()).
		Int("mazeLevel", level).
		Int("size", session.Maze().Size()).
		Msg("session started")
	return session, nil
}

// Session returns an open session owned by the player.
func (l *LevelManager) Session(playerID, sessionID uuid.UUID) (*game.Session, error) {
	l.RLock()
	defer l.RUnlock()

	entry, ok := l.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if entry.player != playerID {
		return nil, ErrSessionForbidden
	}
	return entry.session, nil
}

// Move applies a move. When the move completes the level the completion is
// recorded in the progress store; a store failure is returned together with
// the completion since the session itself has already completed.
func (l *LevelManager) Move(ctx context.Context, playerID, sessionID uuid.UUID, dir game.Direction) (*game.Session, *game.Completion, error) {
	session, err := l.Session(playerID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	completion, err := session.Move(dir)
	if err != nil {
		return session, nil, err
	}
	if completion == nil {
		return session, nil, nil
	}

	l.logger.Info().
		Str("player", playerID.String()).
		Str("session", sessionID.String()).
		Int("mazeLevel", completion.Level).
		Dur("elapsed", completion.Elapsed).
		Int("score", completion.Score).
		Msg("level completed")

	if err := l.store.RecordCompletion(ctx, playerID, *completion); err != nil {
		l.logger.Error().Err(err).Str("player", playerID.String()).Msg("recording completion")
		return session, completion, fmt.Errorf("recording completion: %w", err)
	}
	return session, completion, nil
}

// Progress returns the stored level trail.
func (l *LevelManager) Progress(ctx context.Context, playerID uuid.UUID) (*game.Progress, error) {
	progress, err := l.store.Load(ctx, playerID)
	if err != nil {
		l.logger.Error().Err(err).Str("player", playerID.String()).Msg("loading progress")
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	return progress, nil
}

// ResetProgress clears the stored trail and drops the player's open session.
func (l *LevelManager) ResetProgress(ctx context.Context, playerID uuid.UUID) error {
	if err := l.store.Reset(ctx, playerID); err != nil {
		l.logger.Error().Err(err).Str("player", playerID.String()).Msg("resetting progress")
		return fmt.Errorf("resetting progress: %w", err)
	}

	l.Lock()
	if sessionID, ok := l.playerToSession[playerID]; ok {
		delete(l.sessions, sessionID)
		delete(l.playerToSession, playerID)
	}
	l.Unlock()

	l.logger.Info().Str("player", playerID.String()).Msg("progress reset")
	return nil
}
