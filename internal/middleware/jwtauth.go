// Package middleware provides HTTP middlewares for authentication,
// request logging, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/akarlov/privacymeter/internal/token"
)

type ctxKey string

const userKey ctxKey = "user"

// JWTAuth returns a middleware that enforces bearer-token
// authentication.
//
// It expects an "Authorization: Bearer <token>" header, verifies the
// token with the given manager, and stores the authenticated user id in
// the request context so it can be used downstream.
func JWTAuth(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				http.Error(w, "authorization required", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user id from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
