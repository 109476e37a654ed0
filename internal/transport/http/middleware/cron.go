package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// CronAuth returns middleware that guards scheduled-task endpoints with a
// pre-shared bearer secret. A mismatch rejects the request before any task
// side effects run.
func CronAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeJSONError(w, http.StatusUnauthorized, "task trigger secret not configured")
				return
			}
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			got := strings.TrimPrefix(authHeader, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "invalid trigger secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
