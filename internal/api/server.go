package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/volleydle/volleydle-data/docs"
	"github.com/volleydle/volleydle-data/internal/api/handler"
	"github.com/volleydle/volleydle-data/internal/cache"
	"github.com/volleydle/volleydle-data/internal/config"
	"github.com/volleydle/volleydle-data/internal/db"
	"github.com/volleydle/volleydle-data/internal/session"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(sessions *session.Registry, backend handler.GameBackend, appCache *cache.Cache, cfg *config.Config, pool *db.Pool) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS. Credentials must be allowed because the session rides on a cookie.
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg))
	}

	// --- Handler dependencies ---
	h := handler.New(sessions, backend, appCache, cfg, pool)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
		r.Get("/sessions", h.HealthCheckSessions)
	})

	// Swagger UI backed by the embedded OpenAPI document.
	r.Get("/docs/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(docs.OpenAPI)
	})
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// Game surface
	r.Get("/api/players", h.GetPlayers)
	r.Get("/api/player-of-the-day", h.GetPlayerOfTheDay)
	r.Get("/api/guess", h.EvaluateGuess)

	// Session surface
	r.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", h.GetSessionState)
		r.Post("/guess", h.SubmitSessionGuess)
		r.Put("/mode", h.SetSessionMode)
		r.Get("/candidates", h.GetSessionCandidates)
		r.Get("/countdown", h.GetCountdown)
	})

	return r
}
