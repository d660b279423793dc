package identity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "correct-horse-battery-staple-42"

func TestNewPlayer(t *testing.T) {
	t.Run("valid player", func(t *testing.T) {
		id := uuid.New()
		p, err := NewPlayer(PlayerConfig{ID: id, Username: "maze_runner", PlainPassword: strongPassword})
		require.NoError(t, err)

		assert.Equal(t, id, p.ID)
		assert.Equal(t, "maze_runner", p.Username)
		assert.NotEqual(t, strongPassword, p.PasswordHash)
		assert.True(t, p.VerifyPassword(strongPassword))
		assert.False(t, p.VerifyPassword("wrong"))
	})

	t.Run("generates an ID", func(t *testing.T) {
		p, err := NewPlayer(PlayerConfig{Username: "runner", PlainPassword: strongPassword})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			password string
			want     error
		}{
			{name: "short username", username: "ab", password: strongPassword, want: ErrUsernameTooShort},
			{name: "long username", username: strings.Repeat("a", 21), password: strongPassword, want: ErrUsernameTooLong},
			{name: "bad characters", username: "maze runner!", password: strongPassword, want: ErrInvalidUsername},
			{name: "weak password", username: "runner", password: "password", want: ErrWeakPassword},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				p, err := NewPlayer(PlayerConfig{Username: tt.username, PlainPassword: tt.password})
				assert.ErrorIs(t, err, tt.want)
				assert.Nil(t, p)
			})
		}
	})
}
