package progress

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/game"
	"github.com/lmoura00/JogoLabirinto/service/i"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each player's current level in a string key and the best
// score of every completed level in a sorted set (member: level, score: best).
type RedisStore struct {
	client *redis.Client
	locker *redsync.Redsync
}

var _ i.ProgressStore = &RedisStore{}

// NewRedisStore initializes a RedisStore with the provided Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	pool := goredis.NewPool(client)
	return &RedisStore{
		client: client,
		locker: redsync.New(pool),
	}
}

func levelKey(playerID uuid.UUID) string {
	return "progress:" + playerID.String() + ":level"
}

func scoresKey(playerID uuid.UUID) string {
	return "progress:" + playerID.String() + ":scores"
}

func lockKey(playerID uuid.UUID) string {
	return "progress:" + playerID.String() + ":lock"
}

// Load reads the current level and the scores sorted set.
func (s *RedisStore) Load(ctx context.Context, playerID uuid.UUID) (*game.Progress, error) {
	progress := game.NewProgress()

	level, err := s.client.Get(ctx, levelKey(playerID)).Int()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return nil, fmt.Errorf("reading current level: %w", err)
	default:
		progress.CurrentLevel = max(level, game.FirstLevel)
	}

	entries, err := s.client.ZRangeWithScores(ctx, scoresKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading scores: %w", err)
	}
	for _, z := range entries {
		member, _ := z.Member.(string)
		level, err := strconv.Atoi(member)
		if err != nil {
			return nil, fmt.Errorf("stored score level %q: %w", member, err)
		}
		progress.Scores[level] = int(z.Score)
	}

	return progress, nil
}

// RecordCompletion writes the completion under a per-player lock. ZADD GT
// only raises a level's stored score, so the best score survives replays.
func (s *RedisStore) RecordCompletion(ctx context.Context, playerID uuid.UUID, c game.Completion) error {
	mutex := s.locker.NewMutex(lockKey(playerID))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("locking progress: %w", err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddGT(ctx, scoresKey(playerID), redis.Z{Score: float64(c.Score), Member: strconv.Itoa(c.Level)})
		pipe.Set(ctx, levelKey(playerID), c.Level+1, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording completion: %w", err)
	}
	return nil
}

// Reset deletes both keys of the player.
func (s *RedisStore) Reset(ctx context.Context, playerID uuid.UUID) error {
	mutex := s.locker.NewMutex(lockKey(playerID))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("locking progress: %w", err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	if err := s.client.Del(ctx, levelKey(playerID), scoresKey(playerID)).Err(); err != nil {
		return fmt.Errorf("resetting progress: %w", err)
	}
	return nil
}
