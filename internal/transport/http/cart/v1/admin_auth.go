package v1

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/nikolayk812/nexus-cart/internal/logger"
)

const bearerPrefix = "Bearer "

// AdminAuth guards the admin API with a static bearer token. An empty token
// denies every request.
func AdminAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeJSONError(w, http.StatusForbidden, "admin api disabled", "no admin token configured")
				return
			}

			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				logger.Warn(r.Context(), "admin request rejected", logger.String("path", r.URL.Path))
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "valid admin bearer token required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
