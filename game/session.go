package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/game/maze"
)

// Session-related errors.
var (
	ErrInvalidStateTransition = errors.New("session already completed")
	ErrInvalidDirection       = errors.New("invalid direction")
	ErrNilMaze                = errors.New("session requires a maze")
)

// Scoring constants.
const (
	baseScore        = 1000 // Score for finishing within the first second.
	penaltyPerSecond = 10   // Points lost per whole elapsed second.
)

// State is the lifecycle state of a session.
type State int

const (
	Active    State = iota // Active accepts moves.
	Completed              // Completed is terminal; the goal was reached.
)

// String returns a lowercase name for the state.
func (s State) String() string {
	if s == Completed {
		return "completed"
	}
	return "active"
}

// Completion is the record emitted once, when the player reaches the goal.
type Completion struct {
	SessionID uuid.UUID     // Session that completed
	Level     int           // Level that was played
	Elapsed   time.Duration // Time from session start to goal arrival
	Score     int           // Score derived from Elapsed
}

// ElapsedSeconds returns the elapsed time in fractional seconds.
func (c Completion) ElapsedSeconds() float64 {
	return c.Elapsed.Seconds()
}

// Session holds the gameplay state bound to one maze, from start to goal.
// Moves are serialized so the goal transition fires exactly once.
type Session struct {
	id         uuid.UUID
	level      int
	maze       *maze.Maze
	pos        maze.Position
	state      State
	moves      int
	startedAt  time.Time
	completion *Completion
	clock      func() time.Time
	mu         sync.RWMutex
}

// Option configures StartLevel and NewSession.
type Option func(*options)

type options struct {
	id          uuid.UUID
	rng         maze.Rand
	clock       func() time.Time
	maxAttempts int
}

// WithRand sets the random source used for maze generation.
func WithRand(rng maze.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithClock sets the time source used for session timing.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithMaxAttempts bounds the generate-and-validate loop.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithID sets the session ID instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(o *options) { o.id = id }
}

func buildOptions(opts []Option) *options {
	o := &options{clock: time.Now, maxAttempts: maze.DefaultMaxAttempts}
	for _, opt := range opts {
		opt(o)
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	return o
}

// StartLevel acquires a solvable maze sized for level and returns an active
// session positioned at the maze start.
func StartLevel(level int, opts ...Option) (*Session, error) {
	o := buildOptions(opts)

	size, err := maze.SizeForLevel(level)
	if err != nil {
		return nil, err
	}

	m, _, err := maze.Acquire(size, o.rng, o.maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("starting level %d: %w", level, err)
	}

	return newSession(level, m, o), nil
}

// NewSession starts a session on an existing maze.
func NewSession(level int, m *maze.Maze, opts ...Option) (*Session, error) {
	if m == nil {
		return nil, ErrNilMaze
	}
	if level < 1 {
		return nil, fmt.Errorf("%w: %d", maze.ErrInvalidLevel, level)
	}
	return newSession(level, m, buildOptions(opts)), nil
}

func newSession(level int, m *maze.Maze, o *options) *Session {
	return &Session{
		id:        o.id,
		level:     level,
		maze:      m,
		pos:       maze.Start,
		state:     Active,
		startedAt: o.clock(),
		clock:     o.clock,
	}
}

// Move applies a directional move.
//
// A move into a wall or off the grid leaves the position unchanged and is not
// an error. When the new position is the goal the session completes and the
// completion record is returned; every other call returns a nil record.
func (s *Session) Move(dir Direction) (*Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Completed {
		return nil, ErrInvalidStateTransition
	}

	offset, ok := dir.Offset()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDirection, dir)
	}

	next := s.pos.Add(offset)
	if s.maze.At(next) != maze.Wall {
		s.pos = next
		s.moves++
	}

	if s.maze.At(s.pos) != maze.Goal {
		return nil, nil
	}

	elapsed := s.clock().Sub(s.startedAt)
	s.state = Completed
	s.completion = &Completion{
		SessionID: s.id,
		Level:     s.level,
		Elapsed:   elapsed,
		Score:     Score(elapsed),
	}

	completion := *s.completion
	return &completion, nil
}

// Score computes the level score for an elapsed time: 1000 minus 10 points
// per whole second, never below zero.
func Score(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	seconds := int(elapsed / time.Second)
	return max(0, baseScore-seconds*penaltyPerSecond)
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Level returns the level the session was started for.
func (s *Session) Level() int {
	return s.level
}

// Maze returns the maze of the session. Callers must not modify it.
func (s *Session) Maze() *maze.Maze {
	return s.maze
}

// StartedAt returns the time the session started.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Position returns the current player position.
func (s *Session) Position() maze.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Moves returns the number of accepted moves.
func (s *Session) Moves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moves
}

// Completion returns the completion record, or nil while the session is active.
func (s *Session) Completion() *Completion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.completion == nil {
		return nil
	}
	completion := *s.completion
	return &completion
}
