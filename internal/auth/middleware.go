package auth

import (
	"context"
	"net/http"
	"strings"

	pkghttp "github.com/bitemebuddy/admin-api/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

// sessionContextKey is the key for storing the operator session in context
const sessionContextKey contextKey = "admin_session"

// RequireSession is the login gate for the admin API: it validates the
// bearer session token and injects the operator Session into the request
// context before delegating. Requests without a valid session get a uniform
// 401 envelope and never reach the wrapped handler.
func RequireSession(sm *SessionManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				pkghttp.WriteUnauthorized(w, "Please login to access admin panel")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				pkghttp.WriteUnauthorized(w, "invalid authorization header format")
				return
			}

			session, err := sm.Validate(parts[1])
			if err != nil {
				pkghttp.WriteUnauthorized(w, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the operator session injected by
// RequireSession, or nil when the request did not pass the guard.
func SessionFromContext(r *http.Request) *Session {
	session, _ := r.Context().Value(sessionContextKey).(*Session)
	return session
}
