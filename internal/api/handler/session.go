package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/volleydle/volleydle-data/internal/api/respond"
	"github.com/volleydle/volleydle-data/internal/dayclock"
	"github.com/volleydle/volleydle-data/internal/game"
	"github.com/volleydle/volleydle-data/internal/session"
)

// sessionManager resolves the caller's session from the cookie, minting
// a new id (and cookie) on first contact.
func (h *Handler) sessionManager(w http.ResponseWriter, r *http.Request) (*session.Manager, error) {
	var id string
	if c, err := r.Cookie(h.cfg.SessionCookieName); err == nil && c.Value != "" {
		id = c.Value
	} else {
		id = session.NewSessionID()
		http.SetCookie(w, &http.Cookie{
			Name:     h.cfg.SessionCookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int((365 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   h.cfg.IsProduction(),
		})
	}
	return h.sessions.Get(r.Context(), id)
}

// GetSessionState returns the full presentation view for the caller's
// session: the day's entries, win flag, stats, and countdown.
func (h *Handler) GetSessionState(w http.ResponseWriter, r *http.Request) {
	m, err := h.sessionManager(w, r)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "SESSION_FAILED", "Failed to load session")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, m.Snapshot())
}

type guessRequest struct {
	Name string `json:"name"`
}

type guessResponse struct {
	Entry session.GuessEntry `json:"entry"`
	State session.Snapshot   `json:"state"`
}

// SubmitSessionGuess evaluates a guess for the caller's session and
// appends it to today's log.
func (h *Handler) SubmitSessionGuess(w http.ResponseWriter, r *http.Request) {
	m, err := h.sessionManager(w, r)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "SESSION_FAILED", "Failed to load session")
		return
	}

	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Request body must be JSON with a name field")
		return
	}

	entry, err := m.SubmitGuess(r.Context(), req.Name)
	switch {
	case errors.Is(err, session.ErrGuessIgnored):
		respond.WriteError(w, http.StatusConflict, "GUESS_IGNORED", "Guess ignored")
		return
	case errors.Is(err, game.ErrPlayerNotFound):
		respond.WriteError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", "Player not found. Try another name.")
		return
	case err != nil:
		respond.WriteError(w, http.StatusBadGateway, "EVALUATION_UNAVAILABLE", "Network error or server unavailable")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, guessResponse{Entry: entry, State: m.Snapshot()})
}

type modeRequest struct {
	Mode game.Mode `json:"mode"`
}

// SetSessionMode switches the caller's active track.
func (h *Handler) SetSessionMode(w http.ResponseWriter, r *http.Request) {
	m, err := h.sessionManager(w, r)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "SESSION_FAILED", "Failed to load session")
		return
	}

	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Mode.Valid() {
		respond.WriteError(w, http.StatusBadRequest, "BAD_MODE", "mode must be \"men\" or \"women\"")
		return
	}

	m.SetMode(r.Context(), req.Mode)
	respond.WriteJSONObject(w, http.StatusOK, m.Snapshot())
}

// GetSessionCandidates returns the autocomplete pool for the active
// mode, already excluding guessed players, optionally narrowed by ?q=.
func (h *Handler) GetSessionCandidates(w http.ResponseWriter, r *http.Request) {
	m, err := h.sessionManager(w, r)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "SESSION_FAILED", "Failed to load session")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"candidates": m.Candidates(r.URL.Query().Get("q")),
	})
}

// GetCountdown returns the time remaining until the next puzzle.
func (h *Handler) GetCountdown(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"day":       dayclock.DayID(now),
		"countdown": dayclock.Countdown(now),
	})
}
