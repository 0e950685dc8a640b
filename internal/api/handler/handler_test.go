package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/volleydle/volleydle-data/internal/cache"
	"github.com/volleydle/volleydle-data/internal/config"
	"github.com/volleydle/volleydle-data/internal/game"
	"github.com/volleydle/volleydle-data/internal/session"
	"github.com/volleydle/volleydle-data/internal/store"
)

func intPtr(n int) *int { return &n }

var testRoster = []game.Player{
	{ID: 1, Name: "Earvin Ngapeth", Nationality: "France", Position: "Outside Hitter", TeamName: "Modena", Sex: "M", Age: intPtr(33), HeightCM: intPtr(194), JerseyNumber: intPtr(9)},
	{ID: 2, Name: "Wilfredo Leon", Nationality: "Poland", Position: "Outside Hitter", TeamName: "Perugia", Sex: "M", Age: intPtr(31), HeightCM: intPtr(201), JerseyNumber: intPtr(9)},
	{ID: 3, Name: "Simone Giannelli", Nationality: "Italy", Position: "Setter", TeamName: "Perugia", Sex: "M", Age: intPtr(28), HeightCM: intPtr(200), JerseyNumber: intPtr(6)},
}

// stubBackend serves a fixed roster and treats player 1 as the secret.
type stubBackend struct {
	rosterErr error
	evalErr   error
}

func (s *stubBackend) Roster(ctx context.Context, mode game.Mode) ([]game.Player, error) {
	if s.rosterErr != nil {
		return nil, s.rosterErr
	}
	return testRoster, nil
}

func (s *stubBackend) PlayerOfTheDay(ctx context.Context, mode game.Mode) (game.Player, error) {
	return testRoster[0], nil
}

func (s *stubBackend) Evaluate(ctx context.Context, name string, mode game.Mode) (game.Evaluation, error) {
	if s.evalErr != nil {
		return game.Evaluation{}, s.evalErr
	}
	for _, p := range testRoster {
		if strings.EqualFold(p.Name, name) {
			return game.Evaluation{
				Guess:     p,
				Feedback:  game.Compare(p, testRoster[0]),
				IsCorrect: p.ID == testRoster[0].ID,
			}, nil
		}
	}
	return game.Evaluation{}, game.ErrPlayerNotFound
}

func newTestHandler(t *testing.T, backend *stubBackend) *Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := session.NewRegistry(store.NewMemory(), backend, backend, logger)
	cfg := &config.Config{SessionCookieName: "volleydle_session"}
	return New(registry, backend, cache.New(true), cfg, nil)
}

// waitForSnapshot polls until the session's roster fetch settles.
func waitForSnapshot(t *testing.T, h *Handler, cookie *http.Cookie) session.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.GetSessionState(rec, req)
		var snap session.Snapshot
		if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if !snap.RosterLoading {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("roster never finished loading")
	return session.Snapshot{}
}

func TestGetPlayersCachesWithETag(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})

	rec := httptest.NewRecorder()
	h.GetPlayers(rec, httptest.NewRequest(http.MethodGet, "/api/players?mode=men", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	var players []game.Player
	if err := json.NewDecoder(rec.Body).Decode(&players); err != nil {
		t.Fatalf("decode players: %v", err)
	}
	if len(players) != len(testRoster) {
		t.Fatalf("got %d players, want %d", len(players), len(testRoster))
	}

	rec = httptest.NewRecorder()
	h.GetPlayers(rec, httptest.NewRequest(http.MethodGet, "/api/players?mode=men", nil))
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/players?mode=men", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.GetPlayers(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("conditional status = %d, want 304", rec.Code)
	}
}

func TestGetPlayersBackendDown(t *testing.T) {
	h := newTestHandler(t, &stubBackend{rosterErr: fmt.Errorf("connection refused")})

	rec := httptest.NewRecorder()
	h.GetPlayers(rec, httptest.NewRequest(http.MethodGet, "/api/players", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestEvaluateGuess(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})

	rec := httptest.NewRecorder()
	h.EvaluateGuess(rec, httptest.NewRequest(http.MethodGet, "/api/guess?name=Earvin+Ngapeth", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var eval game.Evaluation
	if err := json.NewDecoder(rec.Body).Decode(&eval); err != nil {
		t.Fatalf("decode evaluation: %v", err)
	}
	if !eval.IsCorrect {
		t.Error("expected correct evaluation for the secret player")
	}

	rec = httptest.NewRecorder()
	h.EvaluateGuess(rec, httptest.NewRequest(http.MethodGet, "/api/guess?name=Nobody", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown name status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.EvaluateGuess(rec, httptest.NewRequest(http.MethodGet, "/api/guess", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", rec.Code)
	}
}

func TestSessionStateSetsCookie(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})

	rec := httptest.NewRecorder()
	h.GetSessionState(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cookies := rec.Result().Cookies()
	var found *http.Cookie
	for _, c := range cookies {
		if c.Name == "volleydle_session" {
			found = c
		}
	}
	if found == nil || found.Value == "" {
		t.Fatal("expected session cookie to be set")
	}

	// A request carrying the cookie must not mint a new one.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(found)
	rec = httptest.NewRecorder()
	h.GetSessionState(rec, req)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no new cookie on a recognized session")
	}
}

func TestSessionGuessFlow(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})
	cookie := &http.Cookie{Name: "volleydle_session", Value: session.NewSessionID()}
	waitForSnapshot(t, h, cookie)

	// Wrong guess first.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/guess", strings.NewReader(`{"name":"Wilfredo Leon"}`))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.SubmitSessionGuess(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("wrong guess status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp guessResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode guess response: %v", err)
	}
	if resp.Entry.IsCorrect {
		t.Error("wrong guess reported correct")
	}
	if resp.State.Won {
		t.Error("session reported won after a wrong guess")
	}

	// Winning guess.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/session/guess", strings.NewReader(`{"name":"Earvin Ngapeth"}`))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.SubmitSessionGuess(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("winning guess status = %d", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode guess response: %v", err)
	}
	if !resp.State.Won || len(resp.State.Entries) != 2 {
		t.Fatalf("want won with 2 entries, got won=%v entries=%d", resp.State.Won, len(resp.State.Entries))
	}
	if resp.State.Stats.GamesWon != 1 {
		t.Errorf("GamesWon = %d, want 1", resp.State.Stats.GamesWon)
	}

	// Guessing after a win is ignored.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/session/guess", strings.NewReader(`{"name":"Simone Giannelli"}`))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.SubmitSessionGuess(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("post-win guess status = %d, want 409", rec.Code)
	}
}

func TestSessionGuessNotFound(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})
	cookie := &http.Cookie{Name: "volleydle_session", Value: session.NewSessionID()}
	waitForSnapshot(t, h, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/guess", strings.NewReader(`{"name":"Nobody Atall"}`))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.SubmitSessionGuess(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var e struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if e.Error.Code != "PLAYER_NOT_FOUND" {
		t.Errorf("code = %q, want PLAYER_NOT_FOUND", e.Error.Code)
	}
}

func TestSessionGuessBadBody(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})
	cookie := &http.Cookie{Name: "volleydle_session", Value: session.NewSessionID()}
	waitForSnapshot(t, h, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/guess", strings.NewReader("not json"))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.SubmitSessionGuess(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSetSessionMode(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})
	cookie := &http.Cookie{Name: "volleydle_session", Value: session.NewSessionID()}
	waitForSnapshot(t, h, cookie)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/session/mode", strings.NewReader(`{"mode":"women"}`))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.SetSessionMode(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap session.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Mode != game.ModeWomen {
		t.Errorf("mode = %q, want women", snap.Mode)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/session/mode", strings.NewReader(`{"mode":"mixed"}`))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.SetSessionMode(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid mode status = %d, want 400", rec.Code)
	}
}

func TestSessionCandidates(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})
	cookie := &http.Cookie{Name: "volleydle_session", Value: session.NewSessionID()}
	waitForSnapshot(t, h, cookie)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/candidates?q=leon", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.GetSessionCandidates(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Candidates []game.Player `json:"candidates"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode candidates: %v", err)
	}
	if len(body.Candidates) != 1 || body.Candidates[0].Name != "Wilfredo Leon" {
		t.Fatalf("candidates = %+v, want just Wilfredo Leon", body.Candidates)
	}
}

func TestGetCountdown(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})

	rec := httptest.NewRecorder()
	h.GetCountdown(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session/countdown", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Day       string `json:"day"`
		Countdown string `json:"countdown"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode countdown: %v", err)
	}
	if len(body.Day) != len("2006-01-02") {
		t.Errorf("day = %q, want YYYY-MM-DD", body.Day)
	}
	parts := strings.Split(body.Countdown, ":")
	if len(parts) != 3 {
		t.Errorf("countdown = %q, want HH:MM:SS", body.Countdown)
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestHandler(t, &stubBackend{})

	for _, tc := range []struct {
		name string
		fn   http.HandlerFunc
	}{
		{"health", h.HealthCheck},
		{"db", h.HealthCheckDB},
		{"cache", h.HealthCheckCache},
		{"sessions", h.HealthCheckSessions},
	} {
		rec := httptest.NewRecorder()
		tc.fn(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", tc.name, rec.Code)
		}
	}
}
