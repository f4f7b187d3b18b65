package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"imagegw/internal/domain"
	"imagegw/internal/http/render"
)

// APIKey enforces a static bearer key allow list. With no keys configured
// every request passes.
func APIKey(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				render.Error(w, domain.MissingAPIKey())
				return
			}
			if !allowedKey(keys, strings.TrimPrefix(header, "Bearer ")) {
				render.Error(w, domain.InvalidAPIKey())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allowedKey(keys []string, candidate string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare([]byte(k), []byte(candidate))
	}
	return found == 1
}
