package middleware

import (
	"context"
	"net/http"
	"strings"

	"ecommerce-api/internal/apperrors"
	"ecommerce-api/internal/models"

	"github.com/rs/zerolog"
)

const (
	notAuthorized = "Not authorized to access this route"
	notAdmin      = "Not authorized as an admin"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Authentication requires a valid "Authorization: Bearer <token>" header whose
// subject is an existing user. The user is attached to the request context.
func Authentication(tokens TokenVerifier, users UserLookup, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				respondWithError(w, http.StatusUnauthorized, notAuthorized)
				return
			}

			subject, err := tokens.Verify(tokenString)
			if err != nil {
				logger.Warn().Err(err).Str("request_id", RequestID(r.Context())).Msg("Invalid token")
				respondWithError(w, http.StatusUnauthorized, notAuthorized)
				return
			}

			user, err := users.GetUserByID(r.Context(), subject)
			if err != nil {
				if apperrors.KindOf(err) != apperrors.KindNotFound {
					logger.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("Error loading token subject")
					respondWithError(w, http.StatusInternalServerError, "Server Error")
					return
				}
				logger.Warn().Err(err).Str("user_id", subject).Msg("Token subject could not be resolved")
				respondWithError(w, http.StatusUnauthorized, notAuthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin must be mounted after Authentication.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, notAuthorized)
				return
			}
			if !user.IsAdmin {
				respondWithError(w, http.StatusForbidden, notAdmin)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func CurrentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userKey).(*models.User)
	return user, ok && user != nil
}
