package middleware

import (
	"context"
	"net/http"
	"strings"

	"hometracker/internal/auth"
	"hometracker/internal/http/respond"
	"hometracker/internal/models"
	"hometracker/internal/storage"
)

type userKey struct{}

// Authenticate validates the bearer token and resolves it to a user,
// which is stored in the request context. A token whose username no
// longer maps to a user is treated the same as an expired one.
func Authenticate(tokens *auth.TokenManager, store storage.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				w.Header().Set("WWW-Authenticate", "Bearer")
				respond.Error(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			username, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			user, err := store.FindUserByUsername(r.Context(), username)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects requests whose resolved user is not an admin.
// It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok || !user.IsAdmin() {
			respond.Error(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom extracts the authenticated user placed by Authenticate.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey{}).(models.User)
	return user, ok
}
