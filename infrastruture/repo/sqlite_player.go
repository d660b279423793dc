package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/identity"
	"github.com/lmoura00/JogoLabirinto/service/i"
	"github.com/mattn/go-sqlite3"
)

// SQLitePlayerRepo stores players in the players table.
type SQLitePlayerRepo struct {
	db *sql.DB
}

var _ i.PlayerRepo = &SQLitePlayerRepo{}

// NewSQLitePlayerRepo returns a repo over a database opened by sqlitedb.Open.
func NewSQLitePlayerRepo(db *sql.DB) *SQLitePlayerRepo {
	return &SQLitePlayerRepo{db: db}
}

// Save inserts or updates a player. The UNIQUE username column rejects a
// second player with the same name.
func (r *SQLitePlayerRepo) Save(ctx context.Context, player *identity.Player) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO players(id, username, password_hash) VALUES (?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			password_hash = excluded.password_hash,
			updated_at = CURRENT_TIMESTAMP`,
		player.ID.String(), player.Username, player.PasswordHash,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrUsernameConflict
		}
		return fmt.Errorf("saving player: %w", err)
	}
	return nil
}

// ByID retrieves a player by their ID.
func (r *SQLitePlayerRepo) ByID(ctx context.Context, id uuid.UUID) (*identity.Player, error) {
	return r.queryOne(ctx, `SELECT id, username, password_hash FROM players WHERE id=?`, id.String())
}

// ByUsername retrieves a player by their username.
func (r *SQLitePlayerRepo) ByUsername(ctx context.Context, username string) (*identity.Player, error) {
	return r.queryOne(ctx, `SELECT id, username, password_hash FROM players WHERE username=?`, username)
}

func (r *SQLitePlayerRepo) queryOne(ctx context.Context, query string, arg string) (*identity.Player, error) {
	var rawID string
	var player identity.Player
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&rawID, &player.Username, &player.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding player: %w", err)
	}

	player.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored player id %q: %w", rawID, err)
	}
	return &player, nil
}
