package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/volleydle/volleydle-data/internal/api/respond"
	"github.com/volleydle/volleydle-data/internal/cache"
	"github.com/volleydle/volleydle-data/internal/dayclock"
	"github.com/volleydle/volleydle-data/internal/game"
)

// GetPlayers returns the full roster for a mode, cached with an ETag so
// the autocomplete bootstrap is cheap on revisits.
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	mode := game.ParseMode(r.URL.Query().Get("mode"))

	cacheKey := fmt.Sprintf("roster:%s", mode)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLRoster, true)
		return
	}

	players, err := h.backend.Roster(r.Context(), mode)
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "ROSTER_UNAVAILABLE", "Failed to load players")
		return
	}
	if players == nil {
		players = []game.Player{}
	}

	data, err := json.Marshal(players)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode players")
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLRoster)
	respond.WriteJSON(w, data, etag, cache.TTLRoster, false)
}

// GetPlayerOfTheDay returns today's secret player for a mode. Kept for
// parity with the original API; the session surface never needs it.
func (h *Handler) GetPlayerOfTheDay(w http.ResponseWriter, r *http.Request) {
	mode := game.ParseMode(r.URL.Query().Get("mode"))

	cacheKey := fmt.Sprintf("daily:%s:%s", mode, dayclock.Today())
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLDailyPlayer, true)
		return
	}

	player, err := h.backend.PlayerOfTheDay(r.Context(), mode)
	if err != nil {
		respond.WriteError(w, http.StatusNotFound, "NO_PLAYER", "No player found")
		return
	}

	data, err := json.Marshal(player)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode player")
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLDailyPlayer)
	respond.WriteJSON(w, data, etag, cache.TTLDailyPlayer, false)
}

// EvaluateGuess scores a name against today's secret player without
// touching any session state. This is the original stateless guess
// endpoint; stateful clients go through the session surface instead.
func (h *Handler) EvaluateGuess(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "No name provided")
		return
	}
	mode := game.ParseMode(r.URL.Query().Get("mode"))

	eval, err := h.backend.Evaluate(r.Context(), name, mode)
	if errors.Is(err, game.ErrPlayerNotFound) {
		respond.WriteError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", "Player not found for this mode")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "EVALUATION_FAILED", "Failed to evaluate guess")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, eval)
}
