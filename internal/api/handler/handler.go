// Package handler provides HTTP handlers for all API endpoints: the game
// surface (roster, daily player, guess evaluation) and the per-cookie
// session engine surface (state, guesses, mode, candidates).
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/volleydle/volleydle-data/internal/api/respond"
	"github.com/volleydle/volleydle-data/internal/cache"
	"github.com/volleydle/volleydle-data/internal/config"
	"github.com/volleydle/volleydle-data/internal/db"
	"github.com/volleydle/volleydle-data/internal/game"
	"github.com/volleydle/volleydle-data/internal/session"
)

// GameBackend is the roster/evaluation collaborator as the API consumes
// it. Satisfied by both the local pgx-backed service and the remote
// HTTP client.
type GameBackend interface {
	Roster(ctx context.Context, mode game.Mode) ([]game.Player, error)
	Evaluate(ctx context.Context, name string, mode game.Mode) (game.Evaluation, error)
	PlayerOfTheDay(ctx context.Context, mode game.Mode) (game.Player, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	sessions *session.Registry
	backend  GameBackend
	cache    *cache.Cache
	cfg      *config.Config
	pool     *db.Pool // nil when running without a database
}

// New creates a Handler with shared dependencies.
func New(sessions *session.Registry, backend GameBackend, c *cache.Cache, cfg *config.Config, pool *db.Pool) *Handler {
	return &Handler{
		sessions: sessions,
		backend:  backend,
		cache:    c,
		cfg:      cfg,
		pool:     pool,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Volleydle API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckSessions reports how many sessions are live in memory.
func (h *Handler) HealthCheckSessions(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"live_sessions": h.sessions.Len(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}
