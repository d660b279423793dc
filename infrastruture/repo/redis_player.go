package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/identity"
	"github.com/lmoura00/JogoLabirinto/service/i"
	"github.com/redis/go-redis/v9"
)

const (
	playerKeyPrefix   = "player:"
	usernameKeyPrefix = "player:username:"
)

// RedisPlayerRepo stores each player as a JSON value and claims usernames
// with a SETNX index key.
type RedisPlayerRepo struct {
	client *redis.Client
}

var _ i.PlayerRepo = &RedisPlayerRepo{}

// NewRedisPlayerRepo returns a RedisPlayerRepo over client.
func NewRedisPlayerRepo(client *redis.Client) *RedisPlayerRepo {
	return &RedisPlayerRepo{client: client}
}

type playerRecord struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// Save inserts or updates a player. The username index is claimed first so a
// second player cannot take an existing name.
func (r *RedisPlayerRepo) Save(ctx context.Context, player *identity.Player) error {
	id := player.ID.String()
	nameKey := usernameKeyPrefix + player.Username

	claimed, err := r.client.SetNX(ctx, nameKey, id, 0).Result()
	if err != nil {
		return fmt.Errorf("claiming username: %w", err)
	}
	if !claimed {
		owner, err := r.client.Get(ctx, nameKey).Result()
		if err != nil {
			return fmt.Errorf("reading username owner: %w", err)
		}
		if owner != id {
			return ErrUsernameConflict
		}
	}

	prev, err := r.ByID(ctx, player.ID)
	if err != nil && !errors.Is(err, ErrPlayerNotFound) {
		return err
	}

	value, err := json.Marshal(playerRecord{ID: id, Username: player.Username, PasswordHash: player.PasswordHash})
	if err != nil {
		return fmt.Errorf("encoding player: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, playerKeyPrefix+id, value, 0)
		if prev != nil && prev.Username != player.Username {
			pipe.Del(ctx, usernameKeyPrefix+prev.Username)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving player: %w", err)
	}
	return nil
}

// ByID retrieves a player by their ID.
func (r *RedisPlayerRepo) ByID(ctx context.Context, id uuid.UUID) (*identity.Player, error) {
	raw, err := r.client.Get(ctx, playerKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding player: %w", err)
	}

	var record playerRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decoding player: %w", err)
	}
	return &identity.Player{ID: id, Username: record.Username, PasswordHash: record.PasswordHash}, nil
}

// ByUsername retrieves a player by their username.
func (r *RedisPlayerRepo) ByUsername(ctx context.Context, username string) (*identity.Player, error) {
	raw, err := r.client.Get(ctx, usernameKeyPrefix+username).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding player: %w", err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("stored player id %q: %w", raw, err)
	}
	return r.ByID(ctx, id)
}
