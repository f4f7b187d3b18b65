package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"imagegw/internal/domain"
	"imagegw/internal/http/render"
)

// Recoverer turns a panic anywhere below it into a 500 internal_error
// envelope so that no request ends without a response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			zerolog.Ctx(r.Context()).Error().
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Msg("recovered from panic")
			render.Error(w, domain.Internal(fmt.Sprint(rec)))
		}()
		next.ServeHTTP(w, r)
	})
}
