package service

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/game"
	"github.com/lmoura00/JogoLabirinto/game/maze"
	"github.com/lmoura00/JogoLabirinto/infrastruture/progress"
	"github.com/lmoura00/JogoLabirinto/infrastruture/repo"
	"github.com/lmoura00/JogoLabirinto/infrastruture/token"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "correct-horse-battery-staple-42"

// failingStore is a ProgressStore whose every call fails.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Load(context.Context, uuid.UUID) (*game.Progress, error) {
	return nil, errStoreDown
}

func (failingStore) RecordCompletion(context.Context, uuid.UUID, game.Completion) error {
	return errStoreDown
}

func (failingStore) Reset(context.Context, uuid.UUID) error {
	return errStoreDown
}

func seededRands() func() maze.Rand {
	var seed atomic.Int64
	return func() maze.Rand {
		return rand.New(rand.NewSource(seed.Add(1)))
	}
}

func newLevelManager(t *testing.T, store *progress.MemoryStore) *LevelManager {
	t.Helper()
	l, err := NewLevelManager(LevelConfig{
		Store:   store,
		Logger:  zerolog.Nop(),
		NewRand: seededRands(),
	})
	require.NoError(t, err)
	return l
}

// solve returns the directions of a shortest path from the start to the goal.
func solve(t *testing.T, m *maze.Maze) []game.Direction {
	t.Helper()
	type step struct {
		from maze.Position
		dir  game.Direction
	}

	cameFrom := map[maze.Position]step{}
	seen := map[maze.Position]bool{maze.Start: true}
	queue := []maze.Position{maze.Start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == m.Goal() {
			var path []game.Direction
			for cur != maze.Start {
				st := cameFrom[cur]
				path = append([]game.Direction{st.dir}, path...)
				cur = st.from
			}
			return path
		}
		for _, d := range game.Directions {
			offset, _ := d.Offset()
			next := cur.Add(offset)
			if m.At(next) != maze.Wall && !seen[next] {
				seen[next] = true
				cameFrom[next] = step{from: cur, dir: d}
				queue = append(queue, next)
			}
		}
	}

	t.Fatal("maze has no path to the goal")
	return nil
}

// play walks the session to its goal and returns the final completion.
func play(t *testing.T, l *LevelManager, playerID uuid.UUID, s *game.Session) *game.Completion {
	t.Helper()
	var completion *game.Completion
	for _, d := range solve(t, s.Maze()) {
		_, c, err := l.Move(context.Background(), playerID, s.ID(), d)
		require.NoError(t, err)
		if c != nil {
			completion = c
		}
	}
	require.NotNil(t, completion)
	return completion
}

func TestLevelManager(t *testing.T) {
	ctx := context.Background()

	t.Run("continues at the stored level", func(t *testing.T) {
		store := progress.NewMemoryStore()
		l := newLevelManager(t, store)
		playerID := uuid.New()

		s, err := l.Start(ctx, playerID, 0)
		require.NoError(t, err)
		assert.Equal(t, game.FirstLevel, s.Level())
		assert.Equal(t, 7, s.Maze().Size())

		completion := play(t, l, playerID, s)
		assert.Equal(t, 1, completion.Level)
		assert.Equal(t, game.Completed, s.State())

		p, err := l.Progress(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, 2, p.CurrentLevel)
		assert.Equal(t, completion.Score, p.Scores[1])

		next, err := l.Start(ctx, playerID, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, next.Level())
		assert.Equal(t, 9, next.Maze().Size())
	})

	t.Run("explicit level", func(t *testing.T) {
		l := newLevelManager(t, progress.NewMemoryStore())

		s, err := l.Start(ctx, uuid.New(), 9)
		require.NoError(t, err)
		assert.Equal(t, 9, s.Level())
		assert.Equal(t, 15, s.Maze().Size())

		_, err = l.Start(ctx, uuid.New(), -2)
		assert.ErrorIs(t, err, maze.ErrInvalidLevel)
	})

	t.Run("completed sessions reject moves", func(t *testing.T) {
		l := newLevelManager(t, progress.NewMemoryStore())
		playerID := uuid.New()

		s, err := l.Start(ctx, playerID, 1)
		require.NoError(t, err)
		play(t, l, playerID, s)

		_, _, err = l.Move(ctx, playerID, s.ID(), game.Up)
		assert.ErrorIs(t, err, game.ErrInvalidStateTransition)

		found, err := l.Session(playerID, s.ID())
		require.NoError(t, err)
		assert.NotNil(t, found.Completion())
	})

	t.Run("session ownership", func(t *testing.T) {
		l := newLevelManager(t, progress.NewMemoryStore())
		owner, other := uuid.New(), uuid.New()

		s, err := l.Start(ctx, owner, 1)
		require.NoError(t, err)

		_, err = l.Session(other, s.ID())
		assert.ErrorIs(t, err, ErrSessionForbidden)

		_, _, err = l.Move(ctx, other, s.ID(), game.Right)
		assert.ErrorIs(t, err, ErrSessionForbidden)

		_, err = l.Session(owner, uuid.New())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("a new start replaces the open session", func(t *testing.T) {
		l := newLevelManager(t, progress.NewMemoryStore())
		playerID := uuid.New()

		first, err := l.Start(ctx, playerID, 1)
		require.NoError(t, err)
		second, err := l.Start(ctx, playerID, 2)
		require.NoError(t, err)

		_, err = l.Session(playerID, first.ID())
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = l.Session(playerID, second.ID())
		assert.NoError(t, err)
	})

	t.Run("reset", func(t *testing.T) {
		store := progress.NewMemoryStore()
		l := newLevelManager(t, store)
		playerID := uuid.New()

		s, err := l.Start(ctx, playerID, 3)
		require.NoError(t, err)
		play(t, l, playerID, s)

		require.NoError(t, l.ResetProgress(ctx, playerID))

		p, err := l.Progress(ctx, playerID)
		require.NoError(t, err)
		assert.Equal(t, game.FirstLevel, p.CurrentLevel)
		assert.Zero(t, p.TotalScore())

		_, err = l.Session(playerID, s.ID())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("scores follow the session clock", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		l, err := NewLevelManager(LevelConfig{Store: progress.NewMemoryStore(), Logger: zerolog.Nop(), Clock: clock, NewRand: seededRands()})
		require.NoError(t, err)
		playerID := uuid.New()

		s, err := l.Start(ctx, playerID, 1)
		require.NoError(t, err)
		now = now.Add(12500 * time.Millisecond)

		completion := play(t, l, playerID, s)
		assert.Equal(t, 12500*time.Millisecond, completion.Elapsed)
		assert.Equal(t, 880, completion.Score)
	})

	t.Run("store failures", func(t *testing.T) {
		l, err := NewLevelManager(LevelConfig{Store: failingStore{}, Logger: zerolog.Nop(), NewRand: seededRands()})
		require.NoError(t, err)
		playerID := uuid.New()

		_, err = l.Start(ctx, playerID, 0)
		assert.ErrorIs(t, err, errStoreDown)

		_, err = l.Progress(ctx, playerID)
		assert.ErrorIs(t, err, errStoreDown)

		assert.ErrorIs(t, l.ResetProgress(ctx, playerID), errStoreDown)

		s, err := l.Start(ctx, playerID, 1)
		require.NoError(t, err)
		path := solve(t, s.Maze())
		for _, d := range path[:len(path)-1] {
			_, _, err := l.Move(ctx, playerID, s.ID(), d)
			require.NoError(t, err)
		}
		_, completion, err := l.Move(ctx, playerID, s.ID(), path[len(path)-1])
		assert.ErrorIs(t, err, errStoreDown)
		assert.NotNil(t, completion)
	})

	t.Run("requires a store", func(t *testing.T) {
		_, err := NewLevelManager(LevelConfig{})
		assert.Error(t, err)
	})
}

func TestAuth(t *testing.T) {
	ctx := context.Background()
	tokenizer := token.NewJwtService("test-secret", "test")
	auth, err := NewAuthService(AuthConfig{
		PlayerRepo: repo.NewMemoryPlayerRepo(),
		Tokenizer:  tokenizer,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	require.NoError(t, auth.Register(ctx, "runner", strongPassword))

	t.Run("sign in issues a player token", func(t *testing.T) {
		player, tok, err := auth.SignIn(ctx, "runner", strongPassword)
		require.NoError(t, err)
		assert.Equal(t, "runner", player.Username)

		claims, err := tokenizer.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, player.ID.String(), claims[ClaimPlayerID])
		assert.Equal(t, "runner", claims[ClaimUsername])
	})

	t.Run("wrong credentials", func(t *testing.T) {
		_, _, err := auth.SignIn(ctx, "runner", "not-the-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = auth.SignIn(ctx, "ghost", strongPassword)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := auth.Register(ctx, "runner", strongPassword)
		assert.ErrorIs(t, err, repo.ErrUsernameConflict)
	})

	t.Run("requires dependencies", func(t *testing.T) {
		_, err := NewAuthService(AuthConfig{Tokenizer: tokenizer})
		assert.Error(t, err)
		_, err = NewAuthService(AuthConfig{PlayerRepo: repo.NewMemoryPlayerRepo()})
		assert.Error(t, err)
	})
}
