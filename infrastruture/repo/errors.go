// Package repo persists players and their progress.
package repo

import "errors"

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrUsernameConflict = errors.New("username conflict")
)
