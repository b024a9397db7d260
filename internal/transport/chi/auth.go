package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AdminKeyHeader carries the admin API key. A Bearer token is accepted too.
const AdminKeyHeader = "X-Admin-API-Key"

// AdminAuthMiddleware guards administrative routes with static API keys.
// With no keys configured every request is rejected.
func AdminAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys = append(validKeys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(validKeys) == 0 {
				writeError(w, http.StatusForbidden, CodeUnauthorized, "admin api is disabled")
				return
			}

			token := adminToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing admin api key")
				return
			}

			for _, k := range validKeys {
				if subtle.ConstantTimeCompare(k, []byte(token)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid admin api key")
		})
	}
}

func adminToken(r *http.Request) string {
	if k := r.Header.Get(AdminKeyHeader); k != "" {
		return k
	}
	const bearerPrefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return auth[len(bearerPrefix):]
	}
	return ""
}
