package service

import (
	"context"
	"errors"
	"time"

	"github.com/lmoura00/JogoLabirinto/identity"
	"github.com/lmoura00/JogoLabirinto/service/i"
	"github.com/rs/zerolog"
)

const defaultTokenTTL = 24 * time.Hour

// Claim names carried by access tokens.
const (
	ClaimPlayerID = "playerID"
	ClaimUsername = "username"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Auth registers players and signs them in.
type Auth struct {
	playerRepo i.PlayerRepo
	tokenizer  i.Tokenizer
	tokenTTL   time.Duration
	logger     zerolog.Logger
}

var _ i.Authenticator = &Auth{}

// AuthConfig holds the dependencies of Auth.
type AuthConfig struct {
	PlayerRepo i.PlayerRepo
	Tokenizer  i.Tokenizer
	TokenTTL   time.Duration // defaults to 24h
	Logger     zerolog.Logger
}

// NewAuthService creates an Auth from its configuration.
func NewAuthService(c AuthConfig) (*Auth, error) {
	if c.PlayerRepo == nil {
		return nil, errors.New("auth service requires a player repository")
	}
	if c.Tokenizer == nil {
		return nil, errors.New("auth service requires a tokenizer")
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}

	return &Auth{
		playerRepo: c.PlayerRepo,
		tokenizer:  c.Tokenizer,
		tokenTTL:   c.TokenTTL,
		logger:     c.Logger,
	}, nil
}

// Register validates the credentials and stores a new player.
func (a *Auth) Register(ctx context.Context, username, password string) error {
	player, err := identity.NewPlayer(identity.PlayerConfig{
		Username:      username,
		PlainPassword: password,
	})
	if err != nil {
		return err
	}

	if err := a.playerRepo.Save(ctx, player); err != nil {
		return err
	}

	a.logger.Info().Str("player", player.ID.String()).Str("username", username).Msg("player registered")
	return nil
}

// SignIn checks the credentials and issues an access token for the player.
func (a *Auth) SignIn(ctx context.Context, username, password string) (*identity.Player, string, error) {
	player, err := a.playerRepo.ByUsername(ctx, username)
	if err != nil {
		a.logger.Debug().Err(err).Str("username", username).Msg("sign in lookup failed")
		return nil, "", ErrInvalidCredentials
	}

	if !player.VerifyPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		ClaimPlayerID: player.ID.String(),
		ClaimUsername: player.Username,
	}, a.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return player, token, nil
}
