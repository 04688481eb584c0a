package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
	"github.com/SankThomas/helpdesk/internal/utils"
)

const sessionTTL = 24 * time.Hour

type AuthService struct {
	users          repository.UserRepository
	sessionSecret  string
	identitySecret string
}

func NewAuthService(users repository.UserRepository, sessionSecret, identitySecret string) *AuthService {
	return &AuthService{users: users, sessionSecret: sessionSecret, identitySecret: identitySecret}
}

// Register creates a local account. Self-registration always yields the
// "user" role; agents and admins are promoted by an admin afterwards.
func (a *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" || len(password) < 6 {
		return nil, fmt.Errorf("%w: email, name and a password of at least 6 characters are required", ErrInvalid)
	}

	existing, _, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrInvalid)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return a.users.Create(ctx, email, name, models.RoleUser, hash)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, hash, err := a.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil || hash == "" || !utils.CheckPassword(hash, password) {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := utils.SignSession(a.sessionSecret, u.ID, sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

// Exchange accepts an identity-provider token, upserts the local user on
// first sight and hands back a session. The provider asserts who the person
// is; what they may do comes from the stored role only.
func (a *AuthService) Exchange(ctx context.Context, identityToken string) (string, *models.User, error) {
	if a.identitySecret == "" {
		return "", nil, fmt.Errorf("%w: identity provider not configured", ErrInvalid)
	}
	claims, err := utils.ParseIdentity(a.identitySecret, identityToken)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	u, err := a.users.UpsertExternal(ctx, claims.Subject, strings.ToLower(claims.Email), claims.Name)
	if err != nil {
		return "", nil, err
	}
	tok, err := utils.SignSession(a.sessionSecret, u.ID, sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}
