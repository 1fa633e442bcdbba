package middleware

import (
	"context"
	"net/http"
	"strings"

	"kajianhub/backend/internal/auth"
)

type contextKey string

const adminLoginKey contextKey = "admin_login"

// AdminLoginFromContext returns the authenticated admin login, if any.
func AdminLoginFromContext(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(adminLoginKey).(string)
	return val, ok
}

// AuthMiddleware requires a valid admin bearer token.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing Authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, "invalid Authorization", http.StatusUnauthorized)
				return
			}
			claims, err := auth.ParseAccessToken(secret, parts[1])
			if err != nil || !claims.IsAdmin {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), adminLoginKey, claims.Login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
