package middleware

import (
	"context"
	"net/http"

	"internhub/internal/apperrors"
	"internhub/internal/models"
	"internhub/internal/utils"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const userKey contextKey = "user"

type UserLookup interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticate verifies the bearer token and loads the user it names. The user
// is stored in the request context for UserFromContext.
func Authenticate(secret string, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}
			userID, err := utils.GetUserIDFromClaims(claims)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}
			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				unauthorized(w, "user no longer exists")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireStaff rejects authenticated users that are neither staff nor superuser.
// It must run after Authenticate.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w, "authentication required")
			return
		}
		if !user.Privileged() {
			utils.JSONError(w, http.StatusForbidden, string(apperrors.KindForbidden), "staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

func unauthorized(w http.ResponseWriter, message string) {
	utils.JSONError(w, http.StatusUnauthorized, string(apperrors.KindUnauthorized), message)
}
