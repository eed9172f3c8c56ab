package middleware

import (
	"context"
	"net/http"
	"strings"

	"inkwell/internal/auth"
)

// Auth validates the signed cookie and adds user ID to context
func Auth(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for public endpoints
			if isPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.UserIDFromRequest(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Add user ID to context
			ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isPublicEndpoint(path string) bool {
	// Exact match paths
	exactPaths := []string{"/", "/api/signup", "/api/login", "/api/logout", "/api/ai/chat"}
	for _, p := range exactPaths {
		if path == p {
			return true
		}
	}
	// Prefix match paths
	prefixPaths := []string{"/mcp"}
	for _, p := range prefixPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
