package middleware

import (
	"net/http"

	"github.com/samber/lo"
)

// CORS adds permissive CORS headers to every response and answers preflight
// OPTIONS requests on any path with 204, before auth and routing. An allow
// list containing "*" (the default) allows every origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := len(allowedOrigins) == 0 || lo.Contains(allowedOrigins, "*")
	allow := lo.Associate(allowedOrigins, func(origin string) (string, struct{}) {
		return origin, struct{}{}
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := allow[origin]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
