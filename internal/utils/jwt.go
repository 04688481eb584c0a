package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carry only the local user id. The role is deliberately not
// embedded: it is loaded from the users table on every request so that a
// role change takes effect immediately and clients can never supply one.
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func SignSession(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(secret))
}

func ParseSession(secret, token string) (*SessionClaims, error) {
	t, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*SessionClaims); ok && t.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// IdentityClaims are what the external identity provider asserts about a
// person: subject, email and display name. Nothing here is trusted for
// authorization.
type IdentityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func ParseIdentity(secret, token string) (*IdentityClaims, error) {
	t, err := jwt.ParseWithClaims(token, &IdentityClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*IdentityClaims); ok && t.Valid && c.Subject != "" {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
