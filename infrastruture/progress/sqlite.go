package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/game"
	"github.com/lmoura00/JogoLabirinto/service/i"
)

// SQLiteStore keeps progress in the progress and level_scores tables.
type SQLiteStore struct {
	db *sql.DB
}

var _ i.ProgressStore = &SQLiteStore{}

// NewSQLiteStore returns a store over a database opened by sqlitedb.Open.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads the current level and every level score of the player.
func (s *SQLiteStore) Load(ctx context.Context, playerID uuid.UUID) (*game.Progress, error) {
	progress := game.NewProgress()
	id := playerID.String()

	var level int
	err := s.db.QueryRowContext(ctx, `SELECT current_level FROM progress WHERE player_id=?`, id).Scan(&level)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("reading current level: %w", err)
	default:
		progress.CurrentLevel = max(level, game.FirstLevel)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT level, score FROM level_scores WHERE player_id=?`, id)
	if err != nil {
		return nil, fmt.Errorf("reading scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level, score int
		if err := rows.Scan(&level, &score); err != nil {
			return nil, fmt.Errorf("reading scores: %w", err)
		}
		progress.Scores[level] = score
	}
	return progress, rows.Err()
}

// RecordCompletion upserts the level score, keeping the larger one, and the
// current level in one transaction.
func (s *SQLiteStore) RecordCompletion(ctx context.Context, playerID uuid.UUID, c game.Completion) error {
	id := playerID.String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recording completion: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO level_scores(player_id, level, score) VALUES (?,?,?)
		ON CONFLICT(player_id, level) DO UPDATE SET score = MAX(score, excluded.score)`,
		id, c.Level, c.Score,
	)
	if err == nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO progress(player_id, current_level) VALUES (?,?)
			ON CONFLICT(player_id) DO UPDATE SET current_level = excluded.current_level`,
			id, c.Level+1,
		)
	}
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("recording completion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recording completion: %w", err)
	}
	return nil
}

// Reset deletes the player's rows from both tables.
func (s *SQLiteStore) Reset(ctx context.Context, playerID uuid.UUID) error {
	id := playerID.String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("resetting progress: %w", err)
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM level_scores WHERE player_id=?`, id)
	if err == nil {
		_, err = tx.ExecContext(ctx, `DELETE FROM progress WHERE player_id=?`, id)
	}
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("resetting progress: %w", err)
	}
	return tx.Commit()
}
