package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/SankThomas/helpdesk/internal/models"
	"github.com/SankThomas/helpdesk/internal/repository"
	"github.com/SankThomas/helpdesk/internal/utils"
)

type ctxKey string

const ctxActor ctxKey = "actor"

// Actor returns the authenticated user for the request, if any.
func Actor(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxActor).(*models.User)
	return u, ok && u != nil
}

// WithActor is used by handler tests to fake an authenticated request.
func WithActor(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxActor, u)
}

// WithAuth resolves the session (cookie "session" or Authorization: Bearer)
// to a user loaded from the database. The JWT identifies the user; role and
// everything else authorization-relevant comes from the stored record, so a
// stale or forged role claim has nothing to attach to.
func WithAuth(log zerolog.Logger, sessionSecret string, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tok string
			if c, err := r.Cookie("session"); err == nil {
				tok = c.Value
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			}

			if tok == "" {
				next.ServeHTTP(w, r) // unauthenticated; guards decide
				return
			}

			claims, err := utils.ParseSession(sessionSecret, tok)
			if err != nil {
				// Clear a broken/expired cookie so it stops being sent.
				http.SetCookie(w, &http.Cookie{
					Name:     "session",
					Value:    "",
					Path:     "/",
					HttpOnly: true,
					MaxAge:   -1,
				})
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				log.Error().Err(err).Msg("session user lookup failed")
				utils.Error(w, http.StatusInternalServerError, "internal error")
				return
			}
			if u == nil {
				next.ServeHTTP(w, r) // account deleted since the token was issued
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), u)))
		})
	}
}
