package middleware

import (
	"net/http"
	"strings"

	"netspeed-monitor/internal/pkg"
)

// JWT requires a bearer HS256 token signed with secret. An empty secret
// disables the check.
func JWT(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}

			if _, err := pkg.ValidateToken(token, secret); err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
