package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"imagegw/internal/http/handlers"
	"imagegw/internal/middleware"
)

// Options carries the cross-cutting settings of the router.
type Options struct {
	Logger          zerolog.Logger
	Recorder        middleware.HTTPRecorder
	APIKeys         []string
	CORSOrigins     []string
	RateLimitPerMin int
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable behind a proxy that overwrites them.
	TrustProxyHeaders bool
	// Metrics, when set, is served at GET /metrics.
	Metrics http.Handler
}

// NewRouter wires middleware and routes. CORS runs first so OPTIONS never
// reaches auth or routing; the key check runs before route matching, so
// unknown paths are also protected.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.CORS(opts.CORSOrigins),
		middleware.RequestID,
	)
	if opts.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Logger(opts.Logger, opts.Recorder),
		middleware.Recoverer,
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
		middleware.APIKey(opts.APIKeys),
	)

	r.NotFound(app.NotFound)
	r.MethodNotAllowed(app.NotFound)

	r.HandleFunc("/", app.Root)
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/models", app.Models)

	r.Route("/v1/images", func(r chi.Router) {
		r.Post("/generations", app.ImagesGenerate)
		r.Post("/edits", app.ImagesEdit)
		r.Post("/variations", app.ImagesVariation)
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	return r
}
