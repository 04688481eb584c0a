package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository/memory"
	"github.com/SankThomas/helpdesk/internal/utils"
)

const (
	testSessionSecret  = "session-secret"
	testIdentitySecret = "identity-secret"
)

func newAuth(t *testing.T) (*AuthService, *memory.UserRepo) {
	t.Helper()
	users := memory.NewUserRepo()
	return NewAuthService(users, testSessionSecret, testIdentitySecret), users
}

func identityToken(t *testing.T, secret, subject, email, name string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.IdentityClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("self-registration is always the user role", func(t *testing.T) {
		auth, _ := newAuth(t)
		u, err := auth.Register(ctx, " Sam@Example.COM ", "Sam", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, u.Role)
		assert.Equal(t, "sam@example.com", u.Email)
	})

	t.Run("rejects short passwords and blanks", func(t *testing.T) {
		auth, _ := newAuth(t)
		_, err := auth.Register(ctx, "a@b.com", "A", "123")
		assert.ErrorIs(t, err, ErrInvalid)
		_, err = auth.Register(ctx, "", "A", "longenough")
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		auth, _ := newAuth(t)
		_, err := auth.Register(ctx, "sam@example.com", "Sam", "hunter22")
		require.NoError(t, err)
		_, err = auth.Register(ctx, "sam@example.com", "Other Sam", "hunter22")
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth(t)
	_, err := auth.Register(ctx, "sam@example.com", "Sam", "hunter22")
	require.NoError(t, err)

	t.Run("valid credentials yield a parsable session", func(t *testing.T) {
		tok, u, err := auth.Login(ctx, "SAM@example.com", "hunter22")
		require.NoError(t, err)
		claims, err := utils.ParseSession(testSessionSecret, tok)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "sam@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "ghost@example.com", "hunter22")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestExchange(t *testing.T) {
	ctx := context.Background()

	t.Run("first exchange creates the user as plain user", func(t *testing.T) {
		auth, _ := newAuth(t)
		tok, u, err := auth.Exchange(ctx, identityToken(t, testIdentitySecret, "ext-1", "Pat@Example.com", "Pat"))
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, u.Role)
		assert.Equal(t, "pat@example.com", u.Email)
		assert.Equal(t, "ext-1", u.ExternalID)

		claims, err := utils.ParseSession(testSessionSecret, tok)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
	})

	t.Run("repeat exchange reuses the account and keeps the role", func(t *testing.T) {
		auth, users := newAuth(t)
		_, first, err := auth.Exchange(ctx, identityToken(t, testIdentitySecret, "ext-1", "pat@example.com", "Pat"))
		require.NoError(t, err)

		promoted, err := users.UpdateRole(ctx, first.ID, models.RoleAgent)
		require.NoError(t, err)
		require.Equal(t, models.RoleAgent, promoted.Role)

		_, again, err := auth.Exchange(ctx, identityToken(t, testIdentitySecret, "ext-1", "pat@example.com", "Patricia"))
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, models.RoleAgent, again.Role, "provider token never resets the stored role")
		assert.Equal(t, "Patricia", again.Name, "profile fields refresh on each exchange")
	})

	t.Run("token signed with the wrong secret", func(t *testing.T) {
		auth, _ := newAuth(t)
		_, _, err := auth.Exchange(ctx, identityToken(t, "not-the-secret", "ext-1", "a@b.com", "A"))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing subject rejected", func(t *testing.T) {
		auth, _ := newAuth(t)
		_, _, err := auth.Exchange(ctx, identityToken(t, testIdentitySecret, "", "a@b.com", "A"))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
