package i

import (
	"context"

	"github.com/lmoura00/JogoLabirinto/identity"
)

// Authenticator registers players and exchanges credentials for access tokens.
type Authenticator interface {
	Register(ctx context.Context, username, password string) error
	SignIn(ctx context.Context, username, password string) (*identity.Player, string, error)
}
